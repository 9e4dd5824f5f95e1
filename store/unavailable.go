package store

import (
	"context"
	"fmt"

	"task-tracker/models"
)

type unavailable struct {
	err error
}

// Unavailable returns a Store that fails every operation with cause. The
// server keeps running on it when the backend could not be reached at
// startup.
func Unavailable(cause error) Store {
	return unavailable{err: fmt.Errorf("store unavailable: %w", cause)}
}

func (u unavailable) List(context.Context) ([]models.Task, error) {
	return nil, u.err
}

func (u unavailable) Create(context.Context, models.TaskInput) (models.Task, error) {
	return models.Task{}, u.err
}

func (u unavailable) Delete(context.Context, string) error {
	return u.err
}

func (u unavailable) Update(context.Context, string, models.TaskInput) (*models.Task, error) {
	return nil, u.err
}

func (u unavailable) Ping(context.Context) error {
	return u.err
}

func (u unavailable) Close() error {
	return nil
}
