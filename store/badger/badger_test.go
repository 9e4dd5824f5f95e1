package badger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/models"
	"task-tracker/store"
	"task-tracker/store/badger"
	"task-tracker/store/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badger.Open(badger.InMemoryConfig())
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

// TestOpenWithPath verifies tasks survive closing and reopening the directory.
func TestOpenWithPath(t *testing.T) {
	ctx := context.Background()
	cfg := badger.DefaultConfig()
	cfg.Path = t.TempDir()

	s, err := badger.Open(cfg)
	require.NoError(t, err)
	in, err := models.ParseTaskInput([]byte(`{"title":"persisted","completed":true}`))
	require.NoError(t, err)
	created, err := s.Create(ctx, in)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = badger.Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Task{created}, tasks)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := badger.Open(badger.DefaultConfig())
	assert.Error(t, err)
}

func TestPing_AfterClose(t *testing.T) {
	s, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(context.Background()))
}
