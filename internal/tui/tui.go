// Package tui is the interactive todo list.
//
// Every store request runs as its own tea.Cmd; its result comes back as a
// todolist.Event and is applied in Update as it arrives. Requests are never
// queued or cancelled, so two quick toggles are two independent requests.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
	"github.com/idilsaglam/todosync/internal/todolist"
	"github.com/idilsaglam/todosync/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	emptyText     = "No todos yet. Press a to add one."
)

// Model is the Bubble Tea model for the todo list.
type Model struct {
	ctx   context.Context
	store store.Store
	log   *log.Logger

	state todolist.State
	list  list.Model
	spin  tea.Cmd // first spinner tick, started in New

	// Inline add
	adding bool            // true when the input line is shown
	ti     textinput.Model // mirrors state.Input
	addErr string          // last add validation error (shown briefly)

	// Remove confirmation
	confirmID string

	removed int // local-only removals this session
	width   int
	height  int
}

// New builds the model. ctx is handed to every store request.
func New(ctx context.Context, st store.Store, l *log.Logger) Model {
	t := ui.Current()

	l2 := list.New(nil, itemDelegate{}, defaultWidth-4, defaultHeight-6)
	l2.SetShowHelp(true)
	l2.SetShowPagination(true)
	l2.SetShowStatusBar(true)
	l2.SetFilteringEnabled(true)
	l2.Styles.Title = t.Title
	l2.Styles.HelpStyle = t.Help
	l2.Styles.PaginationStyle = t.Help
	l2.FilterInput.Prompt = "/ "
	l2.SetStatusBarItemName("item", "items")

	// Extend help with Add / Toggle / Delete bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	l2.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, toggleBind, delBind} }
	l2.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, toggleBind, delBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new todo..."
	ti.CharLimit = 200

	if l == nil {
		l = log.New(io.Discard)
	}
	m := Model{
		ctx:    ctx,
		store:  st,
		log:    l,
		list:   l2,
		ti:     ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	// The load starts with the program; show it as busy from the first frame.
	// Init hands the spinner's first tick to the program.
	m.state = todolist.BeginLoad(m.state)
	m.spin = m.list.StartSpinner()
	m.list.Title = m.header()
	return m
}

// State returns the current list state.
func (m Model) State() todolist.State { return m.state }

// Removed counts items removed locally this session.
func (m Model) Removed() int { return m.removed }

// Init starts the one-time load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg { return todolist.RequestLoad(ctx, st) }
}

func (m Model) createCmd(f model.Fields) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg { return todolist.RequestCreate(ctx, st, f) }
}

func (m Model) toggleCmd(it model.Item) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg { return todolist.RequestToggle(ctx, st, it) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case todolist.LoadDone:
		m.list.StopSpinner()
		return m.apply(msg)

	case todolist.Event:
		return m.apply(msg)

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		if m.confirmID != "" {
			return m.updateConfirm(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			if it, ok := m.selected(); ok {
				return m, m.toggleCmd(it)
			}
			return m, nil
		case "d":
			if it, ok := m.selected(); ok {
				m.confirmID = it.ID
				m.resize()
			}
			return m, nil
		case "a":
			m.adding = true
			m.addErr = ""
			m.ti.SetValue(m.state.Input)
			m.ti.CursorEnd()
			m.resize()
			return m, m.ti.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		f, ok := todolist.PrepareAdd(m.state.Input)
		if !ok {
			m.addErr = "Title cannot be empty"
			return m, nil
		}
		m.addErr = ""
		return m, m.createCmd(f)
	case "esc":
		// Hide the input; the buffer is kept for next time.
		m.adding = false
		m.addErr = ""
		m.ti.Blur()
		m.resize()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.state = todolist.SetInput(m.state, m.ti.Value())
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmID
	m.confirmID = ""
	m.resize()
	switch msg.String() {
	case "y", "Y", "enter":
		before := len(m.state.Items)
		m.state = todolist.Remove(m.state, id)
		if len(m.state.Items) < before {
			m.removed++
			m.log.Info("removed item locally", "id", id)
		}
		cmd := m.sync()
		return m, cmd
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) apply(ev todolist.Event) (tea.Model, tea.Cmd) {
	next, rep := todolist.Apply(m.state, ev)
	m.state = next
	todolist.LogReport(m.log, rep)
	if m.ti.Value() != m.state.Input {
		m.ti.SetValue(m.state.Input)
	}
	cmd := m.sync()
	return m, cmd
}

// sync pushes state.Items into the list widget and refreshes the header.
func (m *Model) sync() tea.Cmd {
	m.list.Title = m.header()
	return m.list.SetItems(toListItems(m.state.Items))
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	// Read the authoritative copy; the widget may lag a frame behind.
	return todolist.Find(m.state, li.ID)
}

func (m *Model) resize() {
	listHeight := m.height - 6
	if m.adding || m.confirmID != "" {
		listHeight -= 4
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)
}

// header is the title line with live counts
func (m Model) header() string {
	t := ui.Current()
	s := todolist.Stats(m.state)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("My Todo List"),
		t.Success.Render(t.SymDone), s.Completed,
		t.Pending.Render(t.SymPending), s.Remaining,
		t.Accent.Render("Total"), s.Total,
	)
}

func (m Model) footer() string {
	t := ui.Current()
	s := todolist.Stats(m.state)
	if s.Total == 0 {
		return ""
	}
	summary := fmt.Sprintf("%d of %d tasks completed", s.Completed, s.Total)
	return t.Muted.Render(summary + "  " + ui.ProgressBar(s.Completed, s.Total, 28))
}

func (m Model) View() string {
	t := ui.Current()

	var b strings.Builder
	if len(m.state.Items) == 0 && !m.state.Busy && !m.list.SettingFilter() {
		b.WriteString(m.header() + "\n\n" + t.Muted.Render(emptyText))
	} else {
		b.WriteString(m.list.View())
	}
	if f := m.footer(); f != "" {
		b.WriteString("\n" + f)
	}

	if m.confirmID != "" {
		title := "Delete this todo?"
		if it, ok := todolist.Find(m.state, m.confirmID); ok {
			title = fmt.Sprintf("Delete %q?", it.Title)
		}
		b.WriteString("\n" + bar(title+"\n"+t.Muted.Render("y to delete, any other key to cancel")))
	}

	if m.adding {
		title := "Add new item"
		if m.addErr != "" {
			title += " - " + t.Error.Render(m.addErr)
		}
		b.WriteString("\n" + bar(title+"\n"+m.ti.View()))
	}
	return ui.Panel([]string{b.String()})
}

func bar(content string) string {
	t := ui.Current()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(content)
}

// Summary is what a session leaves behind once the program exits.
type Summary struct {
	Stats   model.Stats
	Removed int
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, st store.Store, l *log.Logger) (Summary, error) {
	p := tea.NewProgram(New(ctx, st, l), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Summary{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return Summary{}, nil
	}
	return Summary{Stats: todolist.Stats(fm.state), Removed: fm.removed}, nil
}
