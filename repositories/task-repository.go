package repositories

import (
	"context"
	"errors"
	"fmt"

	"kanban-board/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository is the task store. Every query carries the owner in its
// filter, so a task owned by someone else is indistinguishable from a
// missing one: both come back as models.ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID, status models.TaskStatus) ([]models.Task, error)
	UpdateByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID, fields models.TaskFields) (*models.Task, error)
	UpdateStatusByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID, status models.TaskStatus) (*models.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Task, error)
}

type TaskRepo struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewTaskRepo(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *TaskRepo {
	return &TaskRepo{collection: collection, breaker: breaker}
}

// EnsureIndexes creates the owner/status index used by ListByOwner.
func (r *TaskRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("owner_status"),
	})
	if err != nil {
		return fmt.Errorf("create tasks owner index: %w", err)
	}
	return nil
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	return execute(r.breaker, func() (*models.Task, error) {
		doc := *task
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}
		if doc.Status == "" {
			doc.Status = models.StatusToDo
		}

		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		return &doc, nil
	})
}

// ListByOwner returns the owner's tasks in natural order. An empty status
// means no status filter.
func (r *TaskRepo) ListByOwner(ctx context.Context, owner primitive.ObjectID, status models.TaskStatus) ([]models.Task, error) {
	return execute(r.breaker, func() ([]models.Task, error) {
		filter := bson.M{"owner": owner}
		if status != "" {
			filter["status"] = status
		}

		cursor, err := r.collection.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
		}
		defer cursor.Close(ctx)

		tasks := []models.Task{}
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode tasks: %w", err)
		}
		return tasks, nil
	})
}

// UpdateByIDAndOwner sets every provided field and returns the updated task.
func (r *TaskRepo) UpdateByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID, fields models.TaskFields) (*models.Task, error) {
	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Priority != nil {
		set["priority"] = *fields.Priority
	}
	if fields.DueDate != nil {
		set["dueDate"] = *fields.DueDate
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}
	return r.findOneAndSet(ctx, id, owner, set)
}

func (r *TaskRepo) UpdateStatusByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	return r.findOneAndSet(ctx, id, owner, bson.M{"status": status})
}

func (r *TaskRepo) DeleteByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Task, error) {
	return execute(r.breaker, func() (*models.Task, error) {
		var task models.Task
		err := r.collection.FindOneAndDelete(ctx, ownedBy(id, owner)).Decode(&task)
		if err != nil {
			return nil, notFoundOr(err, "failed to delete task")
		}
		return &task, nil
	})
}

func (r *TaskRepo) findOneAndSet(ctx context.Context, id, owner primitive.ObjectID, set bson.M) (*models.Task, error) {
	return execute(r.breaker, func() (*models.Task, error) {
		var task models.Task
		var err error
		if len(set) == 0 {
			err = r.collection.FindOne(ctx, ownedBy(id, owner)).Decode(&task)
		} else {
			opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
			err = r.collection.FindOneAndUpdate(ctx, ownedBy(id, owner), bson.M{"$set": set}, opts).Decode(&task)
		}
		if err != nil {
			return nil, notFoundOr(err, "failed to update task")
		}
		return &task, nil
	})
}

func ownedBy(id, owner primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "owner": owner}
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
