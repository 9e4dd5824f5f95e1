package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"task-tracker/models"
)

// List returns every task in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	query := `
    SELECT id, title, completed
    FROM tasks
    ORDER BY seq ASC
    `
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Completed); err != nil {
			return nil, fmt.Errorf("sqlite: scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts a new task with a fresh id.
func (s *Store) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	fields, err := in.Fields()
	if err != nil {
		return models.Task{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Task{}, fmt.Errorf("sqlite: new id: %w", err)
	}
	task := models.NewTask(id.String(), fields)

	query := `
    INSERT INTO tasks (id, title, completed)
    VALUES (?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, query, task.ID, task.Title, task.Completed); err != nil {
		return models.Task{}, fmt.Errorf("sqlite: insert task: %w", err)
	}
	return task, nil
}

// Delete removes the task if it exists.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := `
    DELETE FROM tasks WHERE id = ?
    `
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("sqlite: delete task %s: %w", id, err)
	}
	return nil
}

// Update merges the present fields into the stored task. It returns nil
// when no task has the id.
func (s *Store) Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	fields, err := in.Fields()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin update: %w", err)
	}
	defer tx.Rollback()

	var task models.Task
	err = tx.QueryRowContext(ctx, "SELECT id, title, completed FROM tasks WHERE id = ?", id).
		Scan(&task.ID, &task.Title, &task.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load task %s: %w", id, err)
	}
	if fields.Empty() {
		return &task, nil
	}

	fields.Apply(&task)
	query := `
    UPDATE tasks
    SET title = ?, completed = ?
    WHERE id = ?
    `
	if _, err := tx.ExecContext(ctx, query, task.Title, task.Completed, id); err != nil {
		return nil, fmt.Errorf("sqlite: update task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit update: %w", err)
	}
	return &task, nil
}
