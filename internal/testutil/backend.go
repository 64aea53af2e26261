// Package testutil provides a fake notes GraphQL backend for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/idilsaglam/notes/internal/model"
)

// Operation names understood by the fake backend.
const (
	OpList   = "listNotes"
	OpCreate = "createNote"
	OpUpdate = "updateNote"
	OpDelete = "deleteNote"
)

// Call records one request received by the backend.
type Call struct {
	Op     string
	Input  map[string]any
	Header http.Header
}

// Backend is an in-memory stand-in for the managed notes API.
type Backend struct {
	srv *httptest.Server

	mu       sync.Mutex
	notes    []model.Note
	calls    []Call
	failures map[string]string
	gate     chan struct{}
}

// NewBackend starts a backend seeded with notes and closes it on cleanup.
func NewBackend(t *testing.T, notes ...model.Note) *Backend {
	t.Helper()
	b := &Backend{
		notes:    append([]model.Note(nil), notes...),
		failures: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Post("/graphql", b.handle)

	b.srv = httptest.NewServer(r)
	t.Cleanup(func() {
		b.Release()
		b.srv.Close()
	})
	return b
}

// Endpoint is the GraphQL URL.
func (b *Backend) Endpoint() string { return b.srv.URL + "/graphql" }

// Fail makes every later call of op return a GraphQL error with msg.
func (b *Backend) Fail(op, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = msg
}

// Hold blocks mutations until Release is called.
func (b *Backend) Hold() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gate == nil {
		b.gate = make(chan struct{})
	}
}

// Release lets held mutations through.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gate != nil {
		close(b.gate)
		b.gate = nil
	}
}

// Notes returns the backend's current collection.
func (b *Backend) Notes() []model.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Note(nil), b.notes...)
}

// Calls returns the recorded calls for op, or all calls when op is empty.
func (b *Backend) Calls(op string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

func operation(query string) string {
	for _, op := range []string{OpCreate, OpUpdate, OpDelete} {
		if strings.Contains(query, op+"(") {
			return op
		}
	}
	if strings.Contains(query, OpList) {
		return OpList
	}
	return ""
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "bad request body")
		return
	}
	op := operation(req.Query)
	input, _ := req.Variables["input"].(map[string]any)

	b.mu.Lock()
	b.calls = append(b.calls, Call{Op: op, Input: input, Header: r.Header.Clone()})
	gate := b.gate
	b.mu.Unlock()

	if gate != nil && op != OpList {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if msg, ok := b.failures[op]; ok {
		writeErrors(w, http.StatusOK, msg)
		return
	}

	var data any
	switch op {
	case OpList:
		items := append([]model.Note{}, b.notes...)
		data = map[string]any{OpList: map[string]any{"items": items}}

	case OpCreate:
		n := model.Note{
			ID:          str(input["id"]),
			ClientID:    str(input["clientId"]),
			Name:        str(input["name"]),
			Description: str(input["description"]),
		}
		n.Completed, _ = input["completed"].(bool)
		b.notes = append(b.notes, n)
		data = map[string]any{OpCreate: n}

	case OpUpdate:
		id := str(input["id"])
		i := b.index(id)
		if i < 0 {
			writeErrors(w, http.StatusOK, "The conditional request failed")
			return
		}
		b.notes[i].Completed, _ = input["completed"].(bool)
		data = map[string]any{OpUpdate: b.notes[i]}

	case OpDelete:
		id := str(input["id"])
		i := b.index(id)
		if i < 0 {
			writeErrors(w, http.StatusOK, "The conditional request failed")
			return
		}
		n := b.notes[i]
		b.notes = append(b.notes[:i], b.notes[i+1:]...)
		data = map[string]any{OpDelete: n}

	default:
		writeErrors(w, http.StatusBadRequest, "unknown operation")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (b *Backend) index(id string) int {
	for i, n := range b.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"errors": []gqlError{{Message: msg}}})
}
