// Package mongo keeps task records in a MongoDB collection named "tasks".
//
// Documents are {_id: ObjectID, title: string, completed: bool}; the ObjectID
// is exposed to callers as its hex string.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"task-tracker/models"
)

const (
	collectionName = "tasks"
	// Database used when the connection string names none.
	defaultDatabase = "test"
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
}

func (d taskDocument) task() models.Task {
	return models.Task{ID: d.ID.Hex(), Title: d.Title, Completed: d.Completed}
}

// Store is a task collection backed by MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open creates a client for uri. The driver connects lazily, so an
// unreachable server shows up on Ping or on the first operation.
func Open(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	coll := client.Database(databaseName(uri)).Collection(collectionName)
	return &Store{client: client, coll: coll}, nil
}

// databaseName extracts the database from the connection string path.
func databaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// DropDatabase removes the database holding the collection.
func (s *Store) DropDatabase(ctx context.Context) error {
	return s.coll.Database().Drop(ctx)
}

// List returns every document in natural order.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find tasks: %w", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: read tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.task())
	}
	return tasks, nil
}

// Create inserts a new document; the ObjectID is generated client side.
func (s *Store) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	fields, err := in.Fields()
	if err != nil {
		return models.Task{}, err
	}

	task := models.NewTask("", fields)
	doc := taskDocument{ID: primitive.NewObjectID(), Title: task.Title, Completed: task.Completed}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return models.Task{}, fmt.Errorf("mongo: insert task: %w", err)
	}
	return doc.task(), nil
}

// Delete removes the document if present. Ids that are not ObjectIDs match
// nothing.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("mongo: delete task %s: %w", id, err)
	}
	return nil
}

// Update applies the present fields with $set and returns the document after
// the change, or nil when it does not exist.
func (s *Store) Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	fields, err := in.Fields()
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	filter := bson.M{"_id": oid}

	var res *mongo.SingleResult
	if set := setDocument(fields); len(set) > 0 {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		res = s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts)
	} else {
		// $set with no fields is rejected by the server.
		res = s.coll.FindOne(ctx, filter)
	}

	var doc taskDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo: update task %s: %w", id, err)
	}
	task := doc.task()
	return &task, nil
}

func setDocument(f models.TaskFields) bson.M {
	set := bson.M{}
	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.Completed != nil {
		set["completed"] = *f.Completed
	}
	return set
}
