package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Manager"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.State() {
	case StateLoading:
		b.WriteString(mutedStyle.Render("Loading tasks..."))
	case StateEmpty:
		b.WriteString(mutedStyle.Render("No tasks yet. Add one above!"))
	default:
		for i, task := range m.tasks.Items() {
			b.WriteString(m.renderTask(i, task.Title, task.Completed))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderTask(i int, title string, completed bool) string {
	pointer := "  "
	if m.focus == focusList && i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}

	box := "[ ]"
	text := title
	if completed {
		box = "[x]"
		text = doneStyle.Render(title)
	}
	return pointer + box + " " + text
}

func (m Model) help() string {
	if m.focus == focusInput {
		return "enter: add • tab: list • esc: quit"
	}
	return "↑/↓: move • space: toggle • d: delete • tab: input • q: quit"
}
