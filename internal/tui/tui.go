// Package tui is the interactive note list.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notes"
)

// Bubble Tea messages.
type (
	stateMsg    model.State
	initDoneMsg struct{ err error }
	closedMsg   struct{}
)

// noteItem adapts a Note to bubbles/list.Item.
type noteItem struct{ note model.Note }

func (i noteItem) FilterValue() string { return i.note.Name + " " + i.note.Description }

// Custom delegate: name line, then description with its action hint.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(noteItem)
	if !ok {
		return
	}
	n := it.note

	box := mutedStyle.Render(boxUnchecked)
	name := n.Name
	action := linkStyle.Render("mark completed")
	if n.Completed {
		box = successStyle.Render(boxChecked)
		name = doneStyle.Render(name)
		action = successStyle.Render("completed")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, box, name)
	fmt.Fprintf(w, "    %s  %s", mutedStyle.Render(n.Description), action)
}

const (
	inputName = iota
	inputDescription
)

var formFields = [...]model.Field{model.FieldName, model.FieldDescription}

// Model is the Bubble Tea model bound to a notes controller.
type Model struct {
	ctx     context.Context
	ctrl    *notes.Controller
	updates <-chan model.State

	state   model.State
	list    list.Model
	spinner spinner.Model

	// Inline create form
	adding  bool
	inputs  [2]textinput.Model
	focus   int
	formErr string

	status string
	width  int
	height int
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

// New builds the view. updates is usually the channel from ctrl.Subscribe.
func New(ctx context.Context, ctrl *notes.Controller, updates <-chan model.State) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("note", "notes")
	l.SetSize(76, 16)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, toggleBind, deleteBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, toggleBind, deleteBind} }

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		updates: updates,
		list:    l,
		spinner: s,
		width:   80,
		height:  24,
	}

	placeholders := [...]string{"Note Name", "Note Description"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		m.inputs[i] = ti
	}

	m.state = ctrl.Snapshot()
	m.syncList()
	return m
}

// Run starts the program and blocks until the user quits and pending remote
// writes have finished.
func Run(ctx context.Context, ctrl *notes.Controller) error {
	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(New(ctx, ctrl, updates), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	ctrl.Wait()
	return err
}

func (m Model) initialize() tea.Msg {
	return initDoneMsg{err: m.ctrl.Initialize(m.ctx)}
}

func (m Model) waitForState() tea.Msg {
	st, ok := <-m.updates
	if !ok {
		return closedMsg{}
	}
	return stateMsg(st)
}

// Init starts the one fetch, the spinner and the snapshot listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initialize, m.spinner.Tick, m.waitForState)
}

// syncList mirrors m.state into the list widget.
func (m *Model) syncList() tea.Cmd {
	items := make([]list.Item, 0, len(m.state.Notes))
	for _, n := range m.state.Notes {
		items = append(items, noteItem{note: n})
	}
	d, p := model.Stats(m.state.Notes)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Notes"),
		successStyle.Render("✔"), d,
		pendingStyle.Render("•"), p,
		accentStyle.Render("Total"), len(m.state.Notes),
	)
	return m.list.SetItems(items)
}

// refresh reads the controller state after a local action.
func (m *Model) refresh() tea.Cmd {
	m.state = m.ctrl.Snapshot()
	return m.syncList()
}

func (m *Model) selected() (model.Note, bool) {
	it, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return model.Note{}, false
	}
	return it.note, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		// A local action may already have read a newer snapshot.
		if msg.Version < m.state.Version {
			return m, m.waitForState
		}
		m.state = model.State(msg)
		return m, tea.Batch(m.syncList(), m.waitForState)

	case closedMsg:
		return m, nil

	case initDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, m.refresh()

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-8, 4))
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 10
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateForm(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			if n, ok := m.selected(); ok {
				m.ctrl.ToggleCompleted(m.ctx, n)
				m.status = ""
				return m, m.refresh()
			}
			return m, nil
		case "d":
			if n, ok := m.selected(); ok {
				m.ctrl.DeleteNote(m.ctx, n.ID)
				m.status = "deleted " + n.Name
				return m, m.refresh()
			}
			return m, nil
		case "a":
			return m.openForm()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.adding = true
	m.formErr = ""
	m.inputs[inputName].SetValue(m.state.Form.Name)
	m.inputs[inputDescription].SetValue(m.state.Form.Description)
	m.focus = inputName
	m.inputs[inputDescription].Blur()
	return m, m.inputs[inputName].Focus()
}

func (m Model) closeForm() Model {
	m.adding = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeForm(), nil
	case "tab", "shift+tab":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "enter":
		n, err := m.ctrl.CreateNote(m.ctx)
		if err != nil {
			m.formErr = "please enter a name and description"
			return m, nil
		}
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m = m.closeForm()
		m.status = "created " + n.Name
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if err := m.ctrl.UpdateFormField(formFields[m.focus], m.inputs[m.focus].Value()); err != nil {
		m.formErr = err.Error()
	}
	m.state = m.ctrl.Snapshot()
	return m, cmd
}

func (m Model) View() string {
	if m.state.Loading {
		return boxStyle.Render(m.spinner.View() + " loading notes...")
	}

	var extra []string
	if m.state.Error {
		extra = append(extra, errorStyle.Render("✖ could not load notes"))
	}
	if m.status != "" {
		extra = append(extra, helpStyle.Render(m.status))
	}

	var form string
	if m.adding {
		title := "New note"
		if m.formErr != "" {
			title += " - " + errorStyle.Render(m.formErr)
		}
		form = boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			title, m.inputs[inputName].View(), m.inputs[inputDescription].View()))
	}

	used := len(extra) + 2
	if form != "" {
		used += lipgloss.Height(form)
	}
	m.list.SetSize(m.width-4, max(m.height-used-2, 4))

	parts := append(extra, m.list.View())
	if form != "" {
		parts = append(parts, form)
	}
	return boxStyle.Render(strings.Join(parts, "\n"))
}
