// Package graphql talks to the managed notes API.
package graphql

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	gql "github.com/machinebox/graphql"

	"github.com/idilsaglam/notes/internal/auth"
	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/model"
)

// Client issues the four note operations against a GraphQL endpoint.
type Client struct {
	gql     *gql.Client
	headers http.Header
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	tokenFunc  func() (*auth.TokenInfo, error)
}

// WithHTTPClient replaces the HTTP client built from the config timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger logs raw GraphQL traffic at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTokenFunc replaces auth.GetToken as the source of login tokens.
func WithTokenFunc(f func() (*auth.TokenInfo, error)) Option {
	return func(o *options) { o.tokenFunc = f }
}

// New builds a client for cfg. In token mode without a configured token the
// stored login token is used; having neither is an error.
func New(cfg config.APIConfig, opts ...Option) (*Client, error) {
	o := options{tokenFunc: auth.GetToken}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	headers := make(http.Header)
	switch cfg.AuthMode {
	case config.AuthModeAPIKey:
		headers.Set("x-api-key", cfg.APIKey)
	case config.AuthModeToken:
		token := cfg.Token
		if token == "" {
			ti, err := o.tokenFunc()
			if err != nil {
				return nil, fmt.Errorf("load token: %w", err)
			}
			if ti == nil || ti.Token == "" {
				return nil, fmt.Errorf("no token found. Set %s or run `notes auth login`", auth.TokenEnv)
			}
			token = ti.Token
		}
		headers.Set("Authorization", token)
	}

	c := gql.NewClient(cfg.Endpoint, gql.WithHTTPClient(o.httpClient))
	if o.logger != nil {
		logger := o.logger
		c.Log = func(s string) { logger.Debug("graphql", slog.String("msg", s)) }
	}
	return &Client{gql: c, headers: headers}, nil
}

func (c *Client) request(query string, input any) *gql.Request {
	req := gql.NewRequest(query)
	if input != nil {
		req.Var("input", input)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req
}

type listNotesResponse struct {
	ListNotes struct {
		Items []model.Note `json:"items"`
	} `json:"listNotes"`
}

// ListNotes returns the full note collection in backend order.
func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var resp listNotesResponse
	if err := c.gql.Run(ctx, c.request(listNotesQuery, nil), &resp); err != nil {
		return nil, fmt.Errorf("listNotes: %w", err)
	}
	items := resp.ListNotes.Items
	if items == nil {
		items = []model.Note{}
	}
	return items, nil
}

// CreateNote sends the full note, client-generated id included.
func (c *Client) CreateNote(ctx context.Context, n model.Note) error {
	var resp struct {
		CreateNote model.Note `json:"createNote"`
	}
	if err := c.gql.Run(ctx, c.request(createNoteMutation, n), &resp); err != nil {
		return fmt.Errorf("createNote: %w", err)
	}
	return nil
}

type updateNoteInput struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// UpdateNote sets only the completed flag of note id.
func (c *Client) UpdateNote(ctx context.Context, id string, completed bool) error {
	var resp struct {
		UpdateNote updateNoteInput `json:"updateNote"`
	}
	in := updateNoteInput{ID: id, Completed: completed}
	if err := c.gql.Run(ctx, c.request(updateNoteMutation, in), &resp); err != nil {
		return fmt.Errorf("updateNote: %w", err)
	}
	return nil
}

type deleteNoteInput struct {
	ID string `json:"id"`
}

// DeleteNote removes note id.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	var resp struct {
		DeleteNote deleteNoteInput `json:"deleteNote"`
	}
	if err := c.gql.Run(ctx, c.request(deleteNoteMutation, deleteNoteInput{ID: id}), &resp); err != nil {
		return fmt.Errorf("deleteNote: %w", err)
	}
	return nil
}
