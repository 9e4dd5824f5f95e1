package mongo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/models"
	"task-tracker/store"
	"task-tracker/store/mongo"
	"task-tracker/store/storetest"
)

// The contract suite needs a live server; set TASKS_MONGO_TEST_URI to run it,
// e.g. mongodb://localhost:27017. Each subtest uses its own database.
func TestStoreContract(t *testing.T) {
	base := os.Getenv("TASKS_MONGO_TEST_URI")
	if base == "" {
		t.Skip("TASKS_MONGO_TEST_URI not set")
	}

	n := 0
	storetest.Run(t, func(t *testing.T) store.Store {
		n++
		uri := fmt.Sprintf("%s/tasktracker_test_%d_%d", base, time.Now().UnixNano(), n)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s, err := mongo.Open(ctx, uri)
		require.NoError(t, err)
		require.NoError(t, s.Ping(ctx))
		t.Cleanup(func() {
			_ = s.DropDatabase(context.Background())
			_ = s.Close()
		})
		return s
	})
}

func TestInvalidObjectIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	// The driver connects lazily; these paths return before any round trip.
	s, err := mongo.Open(ctx, "mongodb://127.0.0.1:1/tasks")
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Delete(ctx, "not-an-object-id"))

	updated, err := s.Update(ctx, "not-an-object-id", models.TaskInput{})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestCastFailureBeforeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := mongo.Open(ctx, "mongodb://127.0.0.1:1/tasks")
	require.NoError(t, err)
	defer s.Close()

	in, err := models.ParseTaskInput([]byte(`{"completed":"maybe"}`))
	require.NoError(t, err)
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, models.ErrCast)
}
