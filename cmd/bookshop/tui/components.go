package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationDialog represents a yes/no confirmation dialog
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
}

// NewConfirmationDialog creates a new confirmation dialog
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:       title,
		Message:     message,
		YesSelected: false,
	}
}

// Update moves the selection and reports whether the answer was submitted.
func (d *ConfirmationDialog) Update(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch key.String() {
	case "left", "h", "y":
		d.YesSelected = true
	case "right", "l", "n":
		d.YesSelected = false
	case "enter":
		return true
	}
	return false
}

// View renders the confirmation dialog
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Yes")
	noButton := inactiveButtonStyle.Render("No")
	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Yes")
	} else {
		noButton = activeButtonStyle.Render("No")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("←/→", "choose") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc", "back")))

	return boxStyle.Render(b.String())
}

// action identifies a menu entry.
type action int

const (
	actionLoad action = iota + 1
	actionPurchases
)

// MenuItem is an entry of the main menu.
type MenuItem struct {
	Action  action
	Label   string
	Summary string
}

func (i MenuItem) FilterValue() string { return i.Label }
func (i MenuItem) Title() string       { return fmt.Sprintf("%d. %s", i.Action, i.Label) }
func (i MenuItem) Description() string { return mutedStyle.Render(i.Summary) }

// MenuItemDelegate renders menu entries
type MenuItemDelegate struct{}

func (d MenuItemDelegate) Height() int                             { return 2 }
func (d MenuItemDelegate) Spacing() int                            { return 1 }
func (d MenuItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d MenuItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(MenuItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + i.Description())
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + i.Description())
	}

	_, _ = fmt.Fprint(w, s)
}

func menuItems() []list.Item {
	return []list.Item{
		MenuItem{Action: actionLoad, Label: "Load test data", Summary: "Reset the schema and load the fixture"},
		MenuItem{Action: actionPurchases, Label: "Find purchases by publisher", Summary: "Report sales by publisher name or id"},
	}
}
