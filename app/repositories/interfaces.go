package repositories

import (
	"context"

	"socialnet/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PostRepository defines the interface for post data access.
// Update, Delete, AddComment and IncrementLikes each locate and mutate the record in one
// atomic step and return models.ErrNotFound when the id matches nothing.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Post, error)
	// Update applies changes and returns the record as it was before the update.
	Update(ctx context.Context, id primitive.ObjectID, changes models.PostChanges) (*models.Post, error)
	// Delete removes the record and returns it as it was before removal.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	AddComment(ctx context.Context, id primitive.ObjectID, comment string) (*models.Post, error)
	IncrementLikes(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
}

// Store bundles the repositories of one backend together with its teardown.
type Store struct {
	Users UserRepository
	Posts PostRepository
	close func(ctx context.Context) error
}

// NewStore creates a Store. closeFn may be nil.
func NewStore(users UserRepository, posts PostRepository, closeFn func(ctx context.Context) error) *Store {
	return &Store{Users: users, Posts: posts, close: closeFn}
}

// Close releases the underlying database handle.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
