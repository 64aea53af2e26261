package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/idilsaglam/notes/internal/apperr"
	"github.com/idilsaglam/notes/internal/auth"
	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/events"
	"github.com/idilsaglam/notes/internal/graphql"
	"github.com/idilsaglam/notes/internal/notes"
	"github.com/idilsaglam/notes/internal/ui"
	pkgconfig "github.com/idilsaglam/notes/pkg/config"
)

const interactiveLogName = "notes.log"

// session is everything one command invocation needs.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	ctrl   *notes.Controller

	closers []func()
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, apperr.NewConfig(err)
	}
	if theme := cmd.String("theme"); theme != "" {
		cfg.UI.Theme = theme
		if err := cfg.UI.Validate(); err != nil {
			return nil, apperr.NewConfig(err)
		}
	}
	return cfg, nil
}

// logOutput picks the log destination. The interactive view owns the
// terminal, so it logs to a file even when none is configured.
func logOutput(cfg *config.Config, interactive bool, stderr io.Writer) (io.Writer, func(), error) {
	path := cfg.App.LogFile
	if path == "" && interactive {
		dir, err := auth.Dir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, interactiveLogName)
	}
	if path == "" {
		return stderr, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func newSession(cmd *cli.Command, interactive bool) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.UI.Theme)

	out, closeLog, err := logOutput(cfg, interactive, cmd.Root().ErrWriter)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, closers: []func(){closeLog}}

	s.logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(s.logger)

	client, err := graphql.New(cfg.API, graphql.WithLogger(s.logger))
	if err != nil {
		s.close()
		return nil, err
	}

	opts := []notes.Option{notes.WithLogger(s.logger)}
	if interactive {
		broker := events.NewBroker()
		s.closers = append(s.closers, broker.Close)
		opts = append(opts, notes.WithBroker(broker))
	}
	s.ctrl = notes.New(client, opts...)

	s.logger.Debug("session ready",
		slog.String("endpoint", cfg.API.Endpoint),
		slog.String("auth_mode", cfg.API.AuthMode),
		slog.String("client_id", s.ctrl.ClientID()))
	return s, nil
}

// withSession wraps an action that needs a controller.
func withSession(interactive bool, fn func(ctx context.Context, cmd *cli.Command, s *session) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := newSession(cmd, interactive)
		if err != nil {
			return err
		}
		defer s.close()
		defer s.ctrl.Wait()
		return fn(ctx, cmd, s)
	}
}
