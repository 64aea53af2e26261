// Package notes owns the note list state and keeps it in step with the
// remote API.
//
// Every mutation is applied to local state before the matching remote call is
// dispatched. Remote failures are logged and never undo the local change; only
// the initial fetch can set the error flag.
package notes

import (
	"context"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/notes/internal/apperr"
	"github.com/idilsaglam/notes/internal/events"
	"github.com/idilsaglam/notes/internal/model"
)

// Remote is the backend the controller writes behind to.
type Remote interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, n model.Note) error
	UpdateNote(ctx context.Context, id string, completed bool) error
	DeleteNote(ctx context.Context, id string) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for remote outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClientID fixes the session id stamped on created notes.
func WithClientID(id string) Option {
	return func(c *Controller) { c.clientID = id }
}

// WithIDFunc replaces the note id generator.
func WithIDFunc(f func() string) Option {
	return func(c *Controller) { c.newID = f }
}

// WithBroker publishes a snapshot to b after every state change.
func WithBroker(b *events.Broker) Option {
	return func(c *Controller) { c.broker = b }
}

// Controller is the note list state container.
type Controller struct {
	remote   Remote
	logger   *slog.Logger
	broker   *events.Broker
	clientID string
	newID    func() string

	initOnce sync.Once
	pending  errgroup.Group

	mu    sync.Mutex
	state model.State
}

// New returns a controller with empty notes and loading set.
func New(remote Remote, opts ...Option) *Controller {
	c := &Controller{
		remote: remote,
		logger: slog.Default(),
		newID:  uuid.NewString,
		state:  model.State{Notes: []model.Note{}, Loading: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clientID == "" {
		c.clientID = uuid.NewString()
	}
	return c
}

// ClientID returns the session id stamped on notes created here.
func (c *Controller) ClientID() string { return c.clientID }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe returns a channel of snapshots sent after each state change and a
// function that ends the subscription. Without a broker the channel is closed.
func (c *Controller) Subscribe() (<-chan model.State, func()) {
	if c.broker == nil {
		ch := make(chan model.State)
		close(ch)
		return ch, func() {}
	}
	ch := c.broker.Subscribe()
	return ch, func() { c.broker.Unsubscribe(ch) }
}

// update applies fn and publishes the result, both under the lock so
// subscribers see snapshots in mutation order.
func (c *Controller) update(fn func(s *model.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	c.publishLocked()
}

func (c *Controller) publishLocked() {
	c.state.Version++
	if c.broker != nil {
		c.broker.Publish(c.state.Clone())
	}
}

// Initialize performs the one startup fetch. Later calls do nothing and
// return nil.
func (c *Controller) Initialize(ctx context.Context) error {
	var err error
	c.initOnce.Do(func() {
		err = c.FetchAll(ctx)
	})
	return err
}

// FetchAll replaces the notes with the remote collection. On failure the
// error flag is set and the notes are left alone.
func (c *Controller) FetchAll(ctx context.Context) error {
	notes, err := c.remote.ListNotes(ctx)
	if err != nil {
		c.logger.Error("fetch notes failed", slog.String("error", err.Error()))
		c.update(func(s *model.State) {
			s.Error = true
			s.Loading = false
		})
		return apperr.NewFetchFailure(err)
	}

	if notes == nil {
		notes = []model.Note{}
	}
	c.logger.Debug("fetched notes", slog.Int("count", len(notes)))
	c.update(func(s *model.State) {
		s.Notes = notes
		s.Loading = false
	})
	return nil
}

// UpdateFormField overwrites one form input. Values are not validated here.
func (c *Controller) UpdateFormField(field model.Field, value string) error {
	switch field {
	case model.FieldName:
		c.update(func(s *model.State) { s.Form.Name = value })
	case model.FieldDescription:
		c.update(func(s *model.State) { s.Form.Description = value })
	default:
		return apperr.NewInvalidField(string(field))
	}
	return nil
}

func validateForm(f *model.Form) error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Description, validation.Required),
	)
}

// CreateNote turns the form into a new note at the head of the list, clears
// the form and dispatches the remote create. An incomplete form returns a
// validation failure and changes nothing.
func (c *Controller) CreateNote(ctx context.Context) (model.Note, error) {
	c.mu.Lock()
	form := c.state.Form
	if err := validateForm(&form); err != nil {
		c.mu.Unlock()
		return model.Note{}, apperr.NewValidationFailure(err)
	}
	note := model.Note{
		ID:          c.newID(),
		ClientID:    c.clientID,
		Name:        form.Name,
		Description: form.Description,
		Completed:   false,
	}
	notes := make([]model.Note, 0, len(c.state.Notes)+1)
	notes = append(notes, note)
	c.state.Notes = append(notes, c.state.Notes...)
	c.state.Form = model.Form{}
	c.publishLocked()
	c.mu.Unlock()

	c.dispatch(ctx, "create", note.ID, func(ctx context.Context) error {
		return c.remote.CreateNote(ctx, note)
	})
	return note, nil
}

// DeleteNote drops every note with id and dispatches the remote delete, even
// when nothing matched locally.
func (c *Controller) DeleteNote(ctx context.Context, id string) {
	c.update(func(s *model.State) {
		kept := make([]model.Note, 0, len(s.Notes))
		for _, n := range s.Notes {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		s.Notes = kept
	})

	c.dispatch(ctx, "delete", id, func(ctx context.Context) error {
		return c.remote.DeleteNote(ctx, id)
	})
}

// ToggleCompleted sets the completed flag of the note with note.ID to
// !note.Completed and dispatches the partial remote update.
func (c *Controller) ToggleCompleted(ctx context.Context, note model.Note) {
	completed := !note.Completed
	c.update(func(s *model.State) {
		notes := make([]model.Note, len(s.Notes))
		copy(notes, s.Notes)
		for i := range notes {
			if notes[i].ID == note.ID {
				notes[i].Completed = completed
			}
		}
		s.Notes = notes
	})

	c.dispatch(ctx, "update", note.ID, func(ctx context.Context) error {
		return c.remote.UpdateNote(ctx, note.ID, completed)
	})
}

// dispatch runs a remote mutation in the background. The caller's
// cancellation does not reach it; the local change is already applied.
func (c *Controller) dispatch(ctx context.Context, op, id string, call func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	c.pending.Go(func() error {
		if err := call(ctx); err != nil {
			merr := apperr.NewMutationFailure(op, id, err)
			c.logger.Error("remote mutation failed",
				slog.String("op", op),
				slog.String("id", id),
				slog.String("error", merr.Error()))
			return nil
		}
		c.logger.Debug("remote mutation succeeded", slog.String("op", op), slog.String("id", id))
		return nil
	})
}

// Wait blocks until every dispatched remote mutation has finished.
func (c *Controller) Wait() {
	_ = c.pending.Wait()
}
