package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"task-tracker/models"
)

var taskPrefix = []byte("tasks/")

// maxUpdateAttempts bounds retries of an update that lost a commit race
// against a concurrent delete.
const maxUpdateAttempts = 5

// validID reports whether id could have been issued by Create. Anything else
// cannot name a stored task.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func taskKey(id string) []byte {
	return append(append([]byte{}, taskPrefix...), id...)
}

// List returns every task in key order.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = taskPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var task models.Task
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &task)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a new task under a fresh id.
func (s *Store) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	fields, err := in.Fields()
	if err != nil {
		return models.Task{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Task{}, fmt.Errorf("badger: new id: %w", err)
	}
	task := models.NewTask(id.String(), fields)

	err = s.db.Update(func(txn *badger.Txn) error {
		return putTask(txn, task)
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("badger: insert task: %w", err)
	}
	return task, nil
}

// Delete removes the task if present.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(taskKey(id))
	})
	if err != nil {
		return fmt.Errorf("badger: delete task %s: %w", id, err)
	}
	return nil
}

// Update merges the present fields into the stored task inside one
// read-write transaction. It returns nil when no task has the id.
func (s *Store) Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	fields, err := in.Fields()
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	for attempt := 1; ; attempt++ {
		updated, err := s.update(id, fields)
		if errors.Is(err, badger.ErrConflict) && attempt < maxUpdateAttempts {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("badger: update task %s: %w", id, err)
		}
		return updated, nil
	}
}

func (s *Store) update(id string, fields models.TaskFields) (*models.Task, error) {
	var updated *models.Task
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(taskKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var task models.Task
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &task)
		}); err != nil {
			return err
		}
		if !fields.Empty() {
			fields.Apply(&task)
			if err := putTask(txn, task); err != nil {
				return err
			}
		}
		updated = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func putTask(txn *badger.Txn, task models.Task) error {
	val, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return txn.Set(taskKey(task.ID), val)
}
