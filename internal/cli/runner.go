package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/idilsaglam/notes/internal/apperr"
	"github.com/idilsaglam/notes/internal/auth"
	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/tui"
	"github.com/idilsaglam/notes/internal/ui"
)

// usageError marks bad invocations (exit code 2).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

// Run executes the notes CLI and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ui.Target(stdout)
	cmd := NewCommand()
	cmd.Reader = stdin
	cmd.Writer = stdout
	cmd.ErrWriter = stderr

	err := cmd.Run(ctx, args)
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())

	var ue *usageError
	switch {
	case errors.As(err, &ue),
		apperr.Is(err, apperr.ErrValidationFailure),
		apperr.Is(err, apperr.ErrNotFound),
		apperr.Is(err, apperr.ErrConfig):
		return 2
	}
	return 1
}

// NewCommand builds the command tree.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "Create, complete and delete notes stored in a GraphQL backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: config.DefaultPath,
				Value:       config.DefaultPath,
				Sources:     cli.EnvVars("NOTES_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Output theme: " + strings.Join(ui.Themes(), ", "),
			},
		},
		Action: withSession(true, runUI),
		Commands: []*cli.Command{
			{
				Name:   "ui",
				Usage:  "Interactive note list (default)",
				Action: withSession(true, runUI),
			},
			{
				Name:  "ls",
				Usage: "List notes",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "group", Usage: "group output by pending/completed"},
				},
				Action: withSession(false, doList),
			},
			{
				Name:      "add",
				Usage:     "Create a note (description can be multiple words)",
				ArgsUsage: "<name> <description...>",
				Action:    withSession(false, doAdd),
			},
			{
				Name:      "done",
				Usage:     "Toggle completed for a note by 1-based index or id",
				ArgsUsage: "<index|id>",
				Action:    withSession(false, doToggle),
			},
			{
				Name:      "rm",
				Usage:     "Delete a note by 1-based index or id",
				ArgsUsage: "<index|id>",
				Action:    withSession(false, doRemove),
			},
			authCommand(),
		},
	}
}

// -------------- subcommand impls ----------------

func runUI(ctx context.Context, cmd *cli.Command, s *session) error {
	if cmd.NArg() > 0 {
		return usagef("unknown subcommand: %s", cmd.Args().First())
	}
	return tui.Run(ctx, s.ctrl)
}

func doList(ctx context.Context, cmd *cli.Command, s *session) error {
	if err := s.ctrl.Initialize(ctx); err != nil {
		return err
	}
	notes := s.ctrl.Snapshot().Notes

	lines := ui.Header(notes)
	lines = append(lines, "")
	if cmd.Bool("group") {
		lines = append(lines, ui.GroupLines(notes)...)
	} else {
		lines = append(lines, ui.NoteLines(notes)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `notes add \"Buy milk\" \"two litres\"`"))
	ui.Panel(cmd.Root().Writer, lines)
	return nil
}

func doAdd(ctx context.Context, cmd *cli.Command, s *session) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return usagef("usage: notes add <name> <description...>")
	}
	if err := s.ctrl.UpdateFormField(model.FieldName, strings.TrimSpace(args[0])); err != nil {
		return err
	}
	desc := strings.TrimSpace(strings.Join(args[1:], " "))
	if err := s.ctrl.UpdateFormField(model.FieldDescription, desc); err != nil {
		return err
	}
	n, err := s.ctrl.CreateNote(ctx)
	if err != nil {
		return err
	}
	ui.OK(cmd.Root().Writer, "added "+ui.ShortID(n.ID))
	return nil
}

func doToggle(ctx context.Context, cmd *cli.Command, s *session) error {
	n, err := resolveArg(ctx, cmd, s, "done")
	if err != nil {
		return err
	}
	s.ctrl.ToggleCompleted(ctx, n)
	state := "pending"
	if !n.Completed {
		state = "completed"
	}
	ui.OK(cmd.Root().Writer, fmt.Sprintf("%s marked %s", n.Name, state))
	return nil
}

func doRemove(ctx context.Context, cmd *cli.Command, s *session) error {
	n, err := resolveArg(ctx, cmd, s, "rm")
	if err != nil {
		return err
	}
	s.ctrl.DeleteNote(ctx, n.ID)
	ui.OK(cmd.Root().Writer, "removed "+n.Name)
	return nil
}

func resolveArg(ctx context.Context, cmd *cli.Command, s *session, name string) (model.Note, error) {
	if cmd.NArg() != 1 {
		return model.Note{}, usagef("usage: notes %s <index|id>", name)
	}
	if err := s.ctrl.Initialize(ctx); err != nil {
		return model.Note{}, err
	}
	return resolve(s.ctrl.Snapshot().Notes, cmd.Args().First())
}

// resolve finds a note by 1-based index, exact id, or unique id prefix.
func resolve(notes []model.Note, ref string) (model.Note, error) {
	ref = strings.TrimSpace(ref)
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 1 || i > len(notes) {
			return model.Note{}, usagef("index out of range: have %d, got %d. Hint: run `notes ls` to see valid indexes", len(notes), i)
		}
		return notes[i-1], nil
	}

	var matches []model.Note
	for _, n := range notes {
		if n.ID == ref {
			return n, nil
		}
		if ref != "" && strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Note{}, apperr.NewNotFound(ref)
	}
	return model.Note{}, usagef("ambiguous id prefix %q matches %d notes", ref, len(matches))
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the API token used in token auth mode",
		Commands: []*cli.Command{
			{Name: "login", Usage: "Store a token (argument or stdin)", ArgsUsage: "[token]", Action: doAuthLogin},
			{Name: "logout", Usage: "Delete the stored token", Action: doAuthLogout},
			{Name: "status", Usage: "Show where the token comes from", Action: doAuthStatus},
		},
		Action: func(context.Context, *cli.Command) error {
			return usagef("usage: notes auth <login|logout|status>")
		},
	}
}

func doAuthLogin(_ context.Context, cmd *cli.Command) error {
	token := cmd.Args().First()
	if token == "" {
		fmt.Fprint(cmd.Root().Writer, "Paste your token: ")
		line, err := bufio.NewReader(cmd.Root().Reader).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if err := auth.SetToken(token, nil); err != nil {
		return usagef("save token: %v", err)
	}
	ui.OK(cmd.Root().Writer, "logged in")
	return nil
}

func doAuthLogout(_ context.Context, cmd *cli.Command) error {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK(cmd.Root().Writer, "token is provided by "+auth.TokenEnv+" env var (nothing to delete)")
		return nil
	}
	if err := auth.DeleteToken(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK(cmd.Root().Writer, "logged out")
	return nil
}

func doAuthStatus(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	ti, err := auth.GetToken()
	if err != nil {
		return err
	}
	if ti == nil {
		fmt.Fprintln(w, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(w, "Run: notes auth login")
		return nil
	}
	fmt.Fprintf(w, "source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Fprintf(w, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "expires: (unknown)")
	}
	fmt.Fprintln(w, "env override: "+auth.TokenEnv)
	return nil
}
