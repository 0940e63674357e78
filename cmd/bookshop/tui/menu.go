// Package tui is the interactive terminal version of the bookshop menu.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/pebble-bookshop/internal/app"
	"github.com/marshallshelly/pebble-bookshop/internal/fixture"
	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/internal/sales"
)

// MenuMode represents the current screen
type MenuMode int

const (
	ModeMenu MenuMode = iota
	ModeConfirm
	ModeInput
	ModeRunning
	ModeResult
	ModeError
)

// MenuModel is the Bubbletea model for the bookshop menu
type MenuModel struct {
	ctx          context.Context
	ops          app.Operations
	mode         MenuMode
	list         list.Model
	confirmation ConfirmationDialog
	input        textinput.Model
	spinner      spinner.Model
	running      string
	title        string
	lines        []string
	err          error
	width        int
	height       int
}

// NewMenuModel creates the menu model
func NewMenuModel(ctx context.Context, ops app.Operations) MenuModel {
	l := list.New(menuItems(), MenuItemDelegate{}, 60, 10)
	l.Title = "Bookshop"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	ti := textinput.New()
	ti.Placeholder = "Питер or 3"
	ti.Prompt = "Publisher name or id: "
	ti.CharLimit = 0 // unlimited

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle

	return MenuModel{
		ctx:     ctx,
		ops:     ops,
		mode:    ModeMenu,
		list:    l,
		input:   ti,
		spinner: s,
	}
}

// Init initializes the model
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Messages
type loadDoneMsg struct {
	result *fixture.Result
	err    error
}

type purchasesDoneMsg struct {
	report *sales.Report
	err    error
}

// Commands
func loadCmd(ctx context.Context, ops app.Operations) tea.Cmd {
	return func() tea.Msg {
		result, err := ops.Load(ctx)
		return loadDoneMsg{result: result, err: err}
	}
}

func purchasesCmd(ctx context.Context, ops app.Operations, token string) tea.Cmd {
	return func() tea.Msg {
		report, err := ops.Purchases(ctx, token)
		return purchasesDoneMsg{report: report, err: err}
	}
}

func (m *MenuModel) run(label string, cmd tea.Cmd) tea.Cmd {
	m.mode = ModeRunning
	m.running = label
	return tea.Batch(m.spinner.Tick, cmd)
}

// Update handles messages
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		if m.mode != ModeRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		if msg.err != nil {
			m.mode, m.err = ModeError, msg.err
			return m, nil
		}
		m.mode = ModeResult
		m.title = successStyle.Render("✓ Test data loaded successfully.")
		m.lines = loadLines(msg.result)
		return m, nil

	case purchasesDoneMsg:
		if msg.err != nil {
			m.mode, m.err = ModeError, msg.err
			return m, nil
		}
		m.mode = ModeResult
		lines := msg.report.Lines()
		if msg.report.Found {
			m.title, m.lines = titleStyle.Render(lines[0]), lines[1:]
		} else {
			m.title, m.lines = warningStyle.Render(lines[0]), nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.mode == ModeMenu {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MenuModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeMenu:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "1":
			m.list.Select(0)
			return m.choose()
		case "2":
			m.list.Select(1)
			return m.choose()
		case "enter", " ":
			return m.choose()
		}

	case ModeConfirm:
		if msg.String() == "esc" || msg.String() == "q" {
			m.mode = ModeMenu
			return m, nil
		}
		if !m.confirmation.Update(msg) {
			return m, nil
		}
		if m.confirmation.YesSelected {
			cmd := m.run("Loading test data...", loadCmd(m.ctx, m.ops))
			return m, cmd
		}
		m.mode = ModeMenu
		return m, nil

	case ModeInput:
		switch msg.Type {
		case tea.KeyEsc:
			m.input.Blur()
			m.mode = ModeMenu
			return m, nil
		case tea.KeyEnter:
			token := strings.TrimSpace(m.input.Value())
			m.input.Blur()
			cmd := m.run(fmt.Sprintf("Searching purchases for '%s'...", token), purchasesCmd(m.ctx, m.ops, token))
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case ModeResult, ModeError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			m.mode = ModeMenu
			m.err = nil
			return m, nil
		}
	}

	if m.mode == ModeMenu {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MenuModel) choose() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(MenuItem)
	if !ok {
		return m, nil
	}

	switch item.Action {
	case actionLoad:
		m.confirmation = NewConfirmationDialog(
			"Load test data",
			"This drops every table and reloads the fixture.\nAll existing rows are lost.",
		)
		m.mode = ModeConfirm
		return m, nil
	case actionPurchases:
		m.input.SetValue("")
		m.mode = ModeInput
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func loadLines(result *fixture.Result) []string {
	var lines []string
	for _, kind := range models.Kinds() {
		if n := result.Counts[kind]; n > 0 {
			lines = append(lines, fmt.Sprintf("%-10s %d", kind, n))
		}
	}
	return lines
}

// View renders the UI
func (m MenuModel) View() string {
	switch m.mode {
	case ModeMenu:
		help := helpStyle.Render(
			FormatKey("↑/↓", "navigate") + " • " +
				FormatKey("enter", "select") + " • " +
				FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), help)

	case ModeConfirm:
		return m.place(m.confirmation.View())

	case ModeInput:
		body := titleStyle.Render("Find purchases by publisher") + "\n\n" +
			m.input.View() + "\n\n" +
			helpStyle.Render(FormatKey("enter", "search")+" • "+FormatKey("esc", "back"))
		return m.place(boxStyle.Render(body))

	case ModeRunning:
		return m.place(boxStyle.Render(m.spinner.View() + " " + m.running))

	case ModeResult:
		body := m.title
		if len(m.lines) > 0 {
			body += "\n\n" + strings.Join(m.lines, "\n")
		}
		body += "\n\n" + helpStyle.Render(FormatKey("enter", "menu")+" • "+FormatKey("q", "quit"))
		return m.place(boxStyle.Render(body))

	case ModeError:
		body := titleStyle.Render("Operation failed") + "\n\n" +
			errorStyle.Render(m.err.Error()) + "\n\n" +
			helpStyle.Render(FormatKey("enter", "menu")+" • "+FormatKey("q", "quit"))
		return m.place(boxStyle.Render(body))
	}

	return "Unknown mode"
}

func (m MenuModel) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Run starts the interactive menu
func Run(ctx context.Context, ops app.Operations) error {
	p := tea.NewProgram(NewMenuModel(ctx, ops), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
