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

// UserRepository is the credential store. Users are never updated or
// deleted through it.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserRepo struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewUserRepo(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *UserRepo {
	return &UserRepo{collection: collection, breaker: breaker}
}

// EnsureIndexes creates the unique email index that backs ErrDuplicateEmail.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

// Create inserts user and returns it with its assigned ID. A second user with
// the same email fails with models.ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return execute(r.breaker, func() (*models.User, error) {
		doc := *user
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}

		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, models.ErrDuplicateEmail
			}
			return nil, fmt.Errorf("failed to save user: %w", err)
		}
		return &doc, nil
	})
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return execute(r.breaker, func() (*models.User, error) {
		var user models.User
		err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, models.ErrNotFound
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		return &user, nil
	})
}
