// Package store selects and opens the persistence backend for task records.
//
// The backend is chosen by the scheme of a single connection string:
//
//	mongodb://host/db, mongodb+srv://...  MongoDB collection "tasks"
//	sqlite://path/to/tasks.db, sqlite::memory:
//	badger://path/to/dir, badger://memory
//
// Every backend is safe for concurrent use.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"task-tracker/models"
	"task-tracker/store/badger"
	"task-tracker/store/mongo"
	"task-tracker/store/sqlite"
)

// ErrUnsupportedScheme is returned by Open for an unknown connection string.
var ErrUnsupportedScheme = errors.New("unsupported store scheme")

// Store is the task collection. Update returns a nil task when id does not
// exist; Delete of a missing id is not an error.
type Store interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (models.Task, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend named by uri.
func Open(ctx context.Context, uri string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	uri = strings.TrimSpace(uri)

	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return mongo.Open(ctx, uri)

	case strings.HasPrefix(uri, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(uri, "sqlite:"), "//")
		return sqlite.Open(ctx, path)

	case strings.HasPrefix(uri, "badger://"):
		cfg := badger.DefaultConfig()
		dir := strings.TrimPrefix(uri, "badger://")
		if dir == "memory" {
			cfg = badger.InMemoryConfig()
		} else {
			cfg.Path = dir
		}
		cfg.Logger = logger.With("component", "badger")
		return badger.Open(cfg)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, redact(uri))
	}
}

// redact drops credentials from a connection string before it is logged.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	return scheme + "://" + rest
}
