package model

// Note is the domain model for a note entry.
// Field names match the backend's GraphQL schema.
type Note struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Field names a form input.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
)

// Form holds pending user input for a new note.
type Form struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// State is the whole application state owned by a notes controller.
type State struct {
	Notes   []Note `json:"notes"`
	Loading bool   `json:"loading"`
	Error   bool   `json:"error"`
	Form    Form   `json:"form"`

	// Version grows by one with every change, so readers can order snapshots.
	Version uint64 `json:"version"`
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	out := s
	if s.Notes != nil {
		out.Notes = make([]Note, len(s.Notes))
		copy(out.Notes, s.Notes)
	}
	return out
}

// Stats counts completed and pending notes.
func Stats(notes []Note) (done, pending int) {
	for _, n := range notes {
		if n.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
