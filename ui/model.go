// Package ui is the interactive terminal client for the task API.
//
// # Description
//
// The model loads the task list once at start, then issues one request per
// user action and reconciles its own list with each server response by id.
// Request failures are logged and otherwise ignored: nothing is rolled back
// and no error is shown on screen.
//
// # Thread Safety
//
// The model is only touched from the bubbletea event loop.
package ui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"task-tracker/client"
	"task-tracker/models"
)

// TaskAPI is the subset of the HTTP client the UI needs.
type TaskAPI interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title string) (models.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// State
// =============================================================================

// State is what the list area shows.
type State int

const (
	// StateLoading is shown until the first list request finishes.
	StateLoading State = iota

	// StateLoaded means at least one task is displayed.
	StateLoaded

	// StateEmpty means loading finished and there are no tasks.
	StateEmpty
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// =============================================================================
// Messages
// =============================================================================

type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

type taskAddedMsg struct {
	task models.Task
	err  error
}

type taskToggledMsg struct {
	id   string
	task *models.Task
	err  error
}

type taskDeletedMsg struct {
	id  string
	err error
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the task list screen.
type Model struct {
	api    TaskAPI
	logger *slog.Logger

	tasks   client.TaskList
	input   textinput.Model
	loading bool
	cursor  int
	focus   focus

	quitting bool
}

// New returns a model in the loading state. Init starts the first fetch.
func New(api TaskAPI, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.Placeholder = "Enter new task"
	input.Prompt = "> "
	input.Focus()

	return Model{
		api:     api,
		logger:  logger,
		input:   input,
		loading: true,
		focus:   focusInput,
	}
}

// State reports which of loading, loaded or empty the list is in.
func (m Model) State() State {
	switch {
	case m.loading:
		return StateLoading
	case m.tasks.Len() == 0:
		return StateEmpty
	default:
		return StateLoaded
	}
}

// Tasks returns the displayed tasks.
func (m Model) Tasks() []models.Task {
	return m.tasks.Items()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadTasks(m.api))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("Failed to fetch tasks", "error", msg.err)
			return m, nil
		}
		m.tasks.Set(msg.tasks)
		m.clampCursor()
		return m, nil

	case taskAddedMsg:
		if msg.err != nil {
			m.logger.Error("Failed to add task", "error", msg.err)
			return m, nil
		}
		m.tasks.Append(msg.task)
		m.input.SetValue("")
		return m, nil

	case taskToggledMsg:
		if msg.err != nil {
			m.logger.Error("Failed to toggle task", "id", msg.id, "error", msg.err)
			return m, nil
		}
		if msg.task == nil {
			m.logger.Warn("Task no longer exists", "id", msg.id)
			return m, nil
		}
		m.tasks.Replace(*msg.task)
		return m, nil

	case taskDeletedMsg:
		if msg.err != nil {
			m.logger.Error("Failed to delete task", "id", msg.id, "error", msg.err)
			return m, nil
		}
		m.tasks.Remove(msg.id)
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusInput {
		if msg.Type == tea.KeyEnter {
			// No guard against empty or duplicate titles.
			return m, addTask(m.api, m.input.Value())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.tasks.Len()-1 {
			m.cursor++
		}
	case " ", "enter", "x":
		if task, ok := m.tasks.Get(m.cursor); ok {
			return m, toggleTask(m.api, task)
		}
	case "d", "delete", "backspace":
		if task, ok := m.tasks.Get(m.cursor); ok {
			return m, deleteTask(m.api, task.ID)
		}
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) clampCursor() {
	if m.cursor >= m.tasks.Len() {
		m.cursor = m.tasks.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// =============================================================================
// Commands
// =============================================================================

func loadTasks(api TaskAPI) tea.Cmd {
	return func() tea.Msg {
		tasks, err := api.List(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func addTask(api TaskAPI, title string) tea.Cmd {
	return func() tea.Msg {
		task, err := api.Create(context.Background(), title)
		return taskAddedMsg{task: task, err: err}
	}
}

func toggleTask(api TaskAPI, task models.Task) tea.Cmd {
	return func() tea.Msg {
		updated, err := api.SetCompleted(context.Background(), task.ID, !task.Completed)
		return taskToggledMsg{id: task.ID, task: updated, err: err}
	}
}

func deleteTask(api TaskAPI, id string) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: api.Delete(context.Background(), id)}
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(api TaskAPI, logger *slog.Logger, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(api, logger), opts...).Run()
	return err
}
