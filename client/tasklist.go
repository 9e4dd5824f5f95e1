package client

import "task-tracker/models"

// TaskList is the client's own copy of the task collection. It is changed
// only from server responses and reconciled by task id. Every change builds
// a new backing slice, so copies of a TaskList value never see each other's
// changes. Not safe for concurrent use.
type TaskList struct {
	tasks []models.Task
}

// Set replaces the whole list.
func (l *TaskList) Set(tasks []models.Task) {
	l.tasks = append([]models.Task(nil), tasks...)
}

// Append adds a task at the end.
func (l *TaskList) Append(task models.Task) {
	l.tasks = append(l.tasks[:len(l.tasks):len(l.tasks)], task)
}

// Replace swaps in task for every entry with the same id and reports whether
// one was found.
func (l *TaskList) Replace(task models.Task) bool {
	next := make([]models.Task, len(l.tasks))
	found := false
	for i, t := range l.tasks {
		if t.ID == task.ID {
			t = task
			found = true
		}
		next[i] = t
	}
	if found {
		l.tasks = next
	}
	return found
}

// Remove drops every entry with id and reports whether one was found.
func (l *TaskList) Remove(id string) bool {
	kept := make([]models.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	removed := len(kept) != len(l.tasks)
	l.tasks = kept
	return removed
}

// Get returns the task at index i.
func (l *TaskList) Get(i int) (models.Task, bool) {
	if i < 0 || i >= len(l.tasks) {
		return models.Task{}, false
	}
	return l.tasks[i], true
}

func (l *TaskList) Len() int {
	return len(l.tasks)
}

// Items returns a copy of the tasks in display order.
func (l *TaskList) Items() []models.Task {
	return append([]models.Task(nil), l.tasks...)
}
