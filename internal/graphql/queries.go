package graphql

// Documents for the backend's generated Note API.

const noteFields = `id
      clientId
      name
      description
      completed`

const listNotesQuery = `query ListNotes {
  listNotes {
    items {
      ` + noteFields + `
    }
  }
}`

const createNoteMutation = `mutation CreateNote($input: CreateNoteInput!) {
  createNote(input: $input) {
    ` + noteFields + `
  }
}`

const updateNoteMutation = `mutation UpdateNote($input: UpdateNoteInput!) {
  updateNote(input: $input) {
    id
    completed
  }
}`

const deleteNoteMutation = `mutation DeleteNote($input: DeleteNoteInput!) {
  deleteNote(input: $input) {
    id
  }
}`
