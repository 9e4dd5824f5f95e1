package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/config"
	"task-tracker/models"
	"task-tracker/store/badger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startAPI(t *testing.T) string {
	t.Helper()
	st, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := httptest.NewServer(newServer(config.Default(), st, discardLogger()))
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTaskCommands(t *testing.T) {
	url := startAPI(t)

	out, err := run(t, "list", "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "No tasks yet\n", out)

	out, err = run(t, "add", "Buy milk", "--api", url)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "[ ] "), out)
	fields := strings.Fields(out)
	require.Len(t, fields, 5)
	id := fields[2]

	out, err = run(t, "toggle", id, "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "[x] "+id+"  Buy milk\n", out)

	out, err = run(t, "list", "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "[x] "+id+"  Buy milk\n", out)

	out, err = run(t, "toggle", id, "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "[ ] "+id+"  Buy milk\n", out)

	out, err = run(t, "rm", id, "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+id+"\n", out)

	out, err = run(t, "list", "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "No tasks yet\n", out)
}

func TestToggleCmd_UnknownID(t *testing.T) {
	url := startAPI(t)

	_, err := run(t, "toggle", "missing", "--api", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRemoveCmd_MissingIDSucceeds(t *testing.T) {
	url := startAPI(t)

	out, err := run(t, "rm", "missing", "--api", url)
	require.NoError(t, err)
	assert.Equal(t, "deleted missing\n", out)
}

func TestAddCmd_RequiresTitle(t *testing.T) {
	_, err := run(t, "add")
	assert.Error(t, err)
}

func TestOpenStore_FallsBackToUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.StoreURI = "postgres://localhost/tasks"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	st := openStore(context.Background(), cfg, logger)
	require.NotNil(t, st)
	assert.Contains(t, logs.String(), "DB connection error")
	assert.Error(t, st.Ping(context.Background()))

	router := newServer(cfg, st, discardLogger())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch tasks"}`, w.Body.String())
}

func TestOpenStore_DefaultIsDurable(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := config.Default()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	st := openStore(context.Background(), cfg, logger)
	assert.Contains(t, logs.String(), "Connected to DB")
	require.NoError(t, st.Ping(context.Background()))

	created, err := st.Create(context.Background(), models.TaskInput{"title": []byte(`"Buy milk"`)})
	require.NoError(t, err)
	require.NoError(t, st.Close())
	assert.FileExists(t, "tasks.db")

	st = openStore(context.Background(), cfg, logger)
	t.Cleanup(func() { st.Close() })
	tasks, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Task{created}, tasks)
}
