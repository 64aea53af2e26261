package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notes/internal/events"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notes"
)

type stubRemote struct {
	mu      sync.Mutex
	notes   []model.Note
	listErr error
	calls   []string
}

func (s *stubRemote) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubRemote) ListNotes(context.Context) ([]model.Note, error) {
	s.record("list")
	return append([]model.Note(nil), s.notes...), s.listErr
}
func (s *stubRemote) CreateNote(_ context.Context, n model.Note) error {
	s.record("create " + n.Name)
	return nil
}
func (s *stubRemote) UpdateNote(_ context.Context, id string, completed bool) error {
	if completed {
		s.record("update " + id + " true")
	} else {
		s.record("update " + id + " false")
	}
	return nil
}
func (s *stubRemote) DeleteNote(_ context.Context, id string) error {
	s.record("delete " + id)
	return nil
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func loaded(t *testing.T, remote *stubRemote) (Model, *notes.Controller) {
	t.Helper()
	ctrl := notes.New(remote, notes.WithClientID("tui"))
	m := New(context.Background(), ctrl, nil)
	require.True(t, m.state.Loading)

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, m.initialize())
	require.False(t, m.state.Loading)
	return m, ctrl
}

func TestInitLoadsNotes(t *testing.T) {
	m, _ := loaded(t, &stubRemote{notes: []model.Note{
		{ID: "1", Name: "milk", Description: "2 litres"},
		{ID: "2", Name: "bread", Description: "rye", Completed: true},
	}})

	assert.Len(t, m.list.Items(), 2)
	view := m.View()
	assert.Contains(t, view, "milk")
	assert.Contains(t, view, "mark completed")
	assert.Contains(t, view, "completed")
}

func TestLoadingView(t *testing.T) {
	ctrl := notes.New(&stubRemote{})
	m := New(context.Background(), ctrl, nil)
	assert.Contains(t, m.View(), "loading notes")
}

func TestFetchFailureShowsBanner(t *testing.T) {
	m, _ := loaded(t, &stubRemote{listErr: errors.New("offline")})

	assert.True(t, m.state.Error)
	assert.Contains(t, m.View(), "could not load notes")
}

func TestAddNoteThroughForm(t *testing.T) {
	remote := &stubRemote{notes: []model.Note{{ID: "1", Name: "old", Description: "x"}}}
	m, ctrl := loaded(t, remote)

	m = send(t, m, keyRunes("a"))
	require.True(t, m.adding)

	m = send(t, m, keyRunes("A"), tea.KeyMsg{Type: tea.KeyTab}, keyRunes("B"))
	assert.Equal(t, model.Form{Name: "A", Description: "B"}, ctrl.Snapshot().Form)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)

	s := ctrl.Snapshot()
	require.Len(t, s.Notes, 2)
	assert.Equal(t, "A", s.Notes[0].Name)
	assert.Equal(t, model.Form{}, s.Form)
	assert.Len(t, m.list.Items(), 2)

	ctrl.Wait()
	assert.Contains(t, remote.calls, "create A")
}

func TestAddNoteValidation(t *testing.T) {
	remote := &stubRemote{}
	m, ctrl := loaded(t, remote)

	m = send(t, m, keyRunes("a"), keyRunes("only name"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.adding)
	assert.Equal(t, "please enter a name and description", m.formErr)
	assert.Empty(t, ctrl.Snapshot().Notes)
	assert.Contains(t, m.View(), "please enter a name and description")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Equal(t, "only name", ctrl.Snapshot().Form.Name, "form input survives cancel")
}

func TestToggleAndDelete(t *testing.T) {
	remote := &stubRemote{notes: []model.Note{
		{ID: "1", Name: "first", Description: "a"},
		{ID: "2", Name: "second", Description: "b"},
	}}
	m, ctrl := loaded(t, remote)

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, ctrl.Snapshot().Notes[0].Completed)
	assert.True(t, m.state.Notes[0].Completed)

	m = send(t, m, keyRunes("d"))
	s := ctrl.Snapshot()
	require.Len(t, s.Notes, 1)
	assert.Equal(t, "2", s.Notes[0].ID)
	assert.Len(t, m.list.Items(), 1)
	assert.True(t, strings.HasPrefix(m.status, "deleted"))

	ctrl.Wait()
	assert.Contains(t, remote.calls, "update 1 true")
	assert.Contains(t, remote.calls, "delete 1")
}

func TestQuit(t *testing.T) {
	m, _ := loaded(t, &stubRemote{})
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStateMsgFromSubscription(t *testing.T) {
	broker := events.NewBroker()
	defer broker.Close()
	remote := &stubRemote{notes: []model.Note{{ID: "1", Name: "n", Description: "d"}}}
	ctrl := notes.New(remote, notes.WithBroker(broker))
	updates, cancel := ctrl.Subscribe()
	defer cancel()

	m := New(context.Background(), ctrl, updates)
	require.NoError(t, ctrl.Initialize(context.Background()))

	msg := m.waitForState()
	st, ok := msg.(stateMsg)
	require.True(t, ok)
	m = send(t, m, st)
	assert.False(t, m.state.Loading)
	assert.Len(t, m.list.Items(), 1)
}

func TestClosedUpdates(t *testing.T) {
	ch := make(chan model.State)
	close(ch)
	m := New(context.Background(), notes.New(&stubRemote{}), ch)
	assert.Equal(t, closedMsg{}, m.waitForState())
}

func TestStaleStateMsgIgnored(t *testing.T) {
	m, ctrl := loaded(t, &stubRemote{notes: []model.Note{{ID: "1", Name: "n", Description: "d"}}})
	stale := ctrl.Snapshot()

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.state.Notes[0].Completed)

	m = send(t, m, stateMsg(stale))
	assert.True(t, m.state.Notes[0].Completed, "older snapshot must not roll back the view")
	assert.Greater(t, m.state.Version, stale.Version)
	ctrl.Wait()
}
