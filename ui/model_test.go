package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/models"
)

type fakeAPI struct {
	tasks     []models.Task
	listErr   error
	created   []string
	toggled   map[string]bool
	deleted   []string
	toggleNil bool
	opErr     error
}

func (f *fakeAPI) List(ctx context.Context) ([]models.Task, error) {
	return f.tasks, f.listErr
}

func (f *fakeAPI) Create(ctx context.Context, title string) (models.Task, error) {
	f.created = append(f.created, title)
	if f.opErr != nil {
		return models.Task{}, f.opErr
	}
	return models.Task{ID: "new", Title: title}, nil
}

func (f *fakeAPI) SetCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	if f.toggled == nil {
		f.toggled = map[string]bool{}
	}
	f.toggled[id] = completed
	if f.opErr != nil || f.toggleNil {
		return nil, f.opErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			t.Completed = completed
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.opErr
}

func newTestModel(api TaskAPI) (Model, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return New(api, logger), &buf
}

// step feeds msg to the model, then runs the returned command once and feeds
// its message back, the way the bubbletea loop would for a single request.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func loaded(t *testing.T, api *fakeAPI) (Model, *bytes.Buffer) {
	t.Helper()
	m, buf := newTestModel(api)
	m = step(t, m, loadTasks(api)())
	return m, buf
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestModel_States(t *testing.T) {
	api := &fakeAPI{}
	m, _ := newTestModel(api)
	assert.Equal(t, StateLoading, m.State())
	assert.Contains(t, m.View(), "Loading tasks...")

	m = step(t, m, loadTasks(api)())
	assert.Equal(t, StateEmpty, m.State())
	assert.Contains(t, m.View(), "No tasks yet")

	api.tasks = []models.Task{{ID: "1", Title: "Buy milk"}}
	m = step(t, m, loadTasks(api)())
	assert.Equal(t, StateLoaded, m.State())
	assert.Contains(t, m.View(), "[ ] Buy milk")
}

func TestModel_LoadFailureLeavesEmptyList(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	m, buf := loaded(t, api)

	assert.Equal(t, StateEmpty, m.State())
	assert.Contains(t, buf.String(), "Failed to fetch tasks")
}

func TestModel_AddAppendsServerRecordAndClearsInput(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{{ID: "1", Title: "A"}}}
	m, _ := loaded(t, api)

	m = typeText(t, m, "Buy milk")
	m = step(t, m, key("enter"))

	assert.Equal(t, []string{"Buy milk"}, api.created)
	assert.Equal(t, []models.Task{
		{ID: "1", Title: "A"},
		{ID: "new", Title: "Buy milk"},
	}, m.Tasks())
	assert.Empty(t, m.input.Value())
}

func TestModel_AddEmptyTitleStillSends(t *testing.T) {
	api := &fakeAPI{}
	m, _ := loaded(t, api)

	m = step(t, m, key("enter"))

	assert.Equal(t, []string{""}, api.created)
	assert.Len(t, m.Tasks(), 1)
	assert.Equal(t, StateLoaded, m.State())
}

func TestModel_AddFailureKeepsInput(t *testing.T) {
	api := &fakeAPI{opErr: errors.New("boom")}
	m, buf := loaded(t, api)

	m = typeText(t, m, "Buy milk")
	m = step(t, m, key("enter"))

	assert.Empty(t, m.Tasks())
	assert.Equal(t, "Buy milk", m.input.Value())
	assert.Contains(t, buf.String(), "Failed to add task")
}

func TestModel_ToggleReplacesById(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
	}}
	m, _ := loaded(t, api)

	m = step(t, m, key("tab"))
	m = step(t, m, key("down"))
	m = step(t, m, key(" "))

	assert.Equal(t, map[string]bool{"2": true}, api.toggled)
	assert.Equal(t, []models.Task{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B", Completed: true},
	}, m.Tasks())
	assert.Contains(t, m.View(), "[x]")
}

func TestModel_ToggleNullResponseLeavesList(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{{ID: "1", Title: "A"}}, toggleNil: true}
	m, buf := loaded(t, api)

	m = step(t, m, key("tab"))
	m = step(t, m, key("x"))

	assert.Equal(t, []models.Task{{ID: "1", Title: "A"}}, m.Tasks())
	assert.Contains(t, buf.String(), "Task no longer exists")
}

func TestModel_DeleteRemovesById(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
	}}
	m, _ := loaded(t, api)

	m = step(t, m, key("tab"))
	m = step(t, m, key("down"))
	m = step(t, m, key("d"))

	assert.Equal(t, []string{"2"}, api.deleted)
	assert.Equal(t, []models.Task{{ID: "1", Title: "A"}}, m.Tasks())
	assert.Equal(t, 0, m.cursor)

	m = step(t, m, key("d"))
	assert.Equal(t, StateEmpty, m.State())
}

func TestModel_DeleteFailureKeepsRecord(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{{ID: "1", Title: "A"}}, opErr: errors.New("boom")}
	m, buf := loaded(t, api)

	m = step(t, m, key("tab"))
	m = step(t, m, key("d"))

	assert.Len(t, m.Tasks(), 1)
	assert.Contains(t, buf.String(), "Failed to delete task")
}

func TestModel_ListKeysIgnoredWhenEmpty(t *testing.T) {
	api := &fakeAPI{}
	m, _ := loaded(t, api)

	m = step(t, m, key("tab"))
	next, cmd := m.Update(key("d"))
	assert.Nil(t, cmd)
	next, cmd = next.(Model).Update(key(" "))
	assert.Nil(t, cmd)
	assert.Empty(t, api.deleted)
	assert.Nil(t, api.toggled)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})

	next, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}

func TestModel_TypingQInInputDoesNotQuit(t *testing.T) {
	m, _ := loaded(t, &fakeAPI{})

	m = typeText(t, m, "q")
	assert.Equal(t, "q", m.input.Value())
	assert.False(t, m.quitting)
}
