// Package storetest holds the behaviour every task store backend must share.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/models"
	"task-tracker/store"
)

// Factory returns an empty store. It is called once per subtest and is
// responsible for closing the store via t.Cleanup.
type Factory func(t *testing.T) store.Store

// Run exercises the store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("list on empty store is empty, not nil", func(t *testing.T) {
		s := newStore(t)
		tasks, err := s.List(context.Background())
		require.NoError(t, err)
		require.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("create assigns id and defaults completed", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task, err := s.Create(ctx, input(t, `{"title":"Buy milk"}`))
		require.NoError(t, err)
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.False(t, task.Completed)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Task{task}, tasks)
	})

	t.Run("create with empty body", func(t *testing.T) {
		s := newStore(t)
		task, err := s.Create(context.Background(), input(t, `{}`))
		require.NoError(t, err)
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "", task.Title)
		assert.False(t, task.Completed)
	})

	t.Run("create ignores client supplied id", func(t *testing.T) {
		s := newStore(t)
		task, err := s.Create(context.Background(), input(t, `{"id":"mine","title":"x"}`))
		require.NoError(t, err)
		assert.NotEqual(t, "mine", task.ID)
	})

	t.Run("ids are unique and list keeps creation order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seen := make(map[string]bool)
		var created []models.Task
		for i := 0; i < 20; i++ {
			// Duplicate titles are allowed.
			task, err := s.Create(ctx, input(t, `{"title":"same","completed":false}`))
			require.NoError(t, err)
			require.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
			created = append(created, task)
		}

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, created, tasks)
	})

	t.Run("delete removes the task from list", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		keep, err := s.Create(ctx, input(t, `{"title":"keep"}`))
		require.NoError(t, err)
		gone, err := s.Create(ctx, input(t, `{"title":"gone"}`))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, gone.ID))

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Task{keep}, tasks)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task, err := s.Create(ctx, input(t, `{"title":"x"}`))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, task.ID))
		assert.NoError(t, s.Delete(ctx, task.ID))
		assert.NoError(t, s.Delete(ctx, "does-not-exist"))
	})

	t.Run("update changes only present fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task, err := s.Create(ctx, input(t, `{"title":"Buy milk"}`))
		require.NoError(t, err)

		updated, err := s.Update(ctx, task.ID, input(t, `{"completed":true}`))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.Task{ID: task.ID, Title: "Buy milk", Completed: true}, *updated)

		updated, err = s.Update(ctx, task.ID, input(t, `{"title":"Buy oat milk"}`))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.Task{ID: task.ID, Title: "Buy oat milk", Completed: true}, *updated)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Task{*updated}, tasks)
	})

	t.Run("update with no fields returns current record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task, err := s.Create(ctx, input(t, `{"title":"x","completed":true}`))
		require.NoError(t, err)

		updated, err := s.Update(ctx, task.ID, input(t, `{"unknown":1}`))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, task, *updated)
	})

	t.Run("update of missing id returns nil", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		updated, err := s.Update(ctx, "does-not-exist", input(t, `{"completed":true}`))
		require.NoError(t, err)
		assert.Nil(t, updated)

		task, err := s.Create(ctx, input(t, `{"title":"x"}`))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, task.ID))

		updated, err = s.Update(ctx, task.ID, input(t, `{"completed":true}`))
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("cast failure is an operation error", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, input(t, `{"title":{"nested":true}}`))
		assert.ErrorIs(t, err, models.ErrCast)

		task, err := s.Create(ctx, input(t, `{"title":"x"}`))
		require.NoError(t, err)
		_, err = s.Update(ctx, task.ID, input(t, `{"completed":"maybe"}`))
		assert.ErrorIs(t, err, models.ErrCast)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Task{task}, tasks)
	})

	t.Run("oversized id is not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := strings.Repeat("a", 70000)

		assert.NoError(t, s.Delete(ctx, id))
		updated, err := s.Update(ctx, id, input(t, `{"completed":true}`))
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("concurrent operations do not fail", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		target, err := s.Create(ctx, input(t, `{"title":"target"}`))
		require.NoError(t, err)
		victim, err := s.Create(ctx, input(t, `{"title":"victim"}`))
		require.NoError(t, err)
		var others []models.Task
		for i := 0; i < 5; i++ {
			task, err := s.Create(ctx, input(t, `{"title":"other"}`))
			require.NoError(t, err)
			others = append(others, task)
		}

		const updates = 30
		errs := make(chan error, 2*updates+2*len(others)+1)
		var wg sync.WaitGroup
		run := func(f func() error) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- f()
			}()
		}

		created := input(t, `{"title":"new"}`)
		for i := 0; i < updates; i++ {
			patch := input(t, fmt.Sprintf(`{"completed":%t}`, i%2 == 0))
			run(func() error {
				_, err := s.Update(ctx, target.ID, patch)
				return err
			})
			run(func() error {
				_, err := s.Update(ctx, victim.ID, patch)
				return err
			})
		}
		run(func() error { return s.Delete(ctx, victim.ID) })
		for _, o := range others {
			run(func() error { return s.Delete(ctx, o.ID) })
			run(func() error {
				_, err := s.Create(ctx, created)
				return err
			})
		}

		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		ids := make(map[string]bool)
		for _, task := range tasks {
			ids[task.ID] = true
		}
		assert.True(t, ids[target.ID])
		assert.False(t, ids[victim.ID])
		assert.Len(t, tasks, 1+len(others))
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

func input(t *testing.T, body string) models.TaskInput {
	t.Helper()
	in, err := models.ParseTaskInput([]byte(body))
	require.NoError(t, err)
	return in
}
