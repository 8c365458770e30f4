package repositories

import (
	"context"
	"errors"
	"fmt"

	"socialnet/app/models"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ UserRepository = (*BadgerUserRepository)(nil)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user and indexes it by email
func (r *BadgerUserRepository) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}

	return update(r.db, func(txn *badger.Txn) error {
		if err := claimEmail(txn, user.Email, user.ID); err != nil {
			return err
		}
		return setEntity(txn, userKey(user.ID), user)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user through the email index
func (r *BadgerUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		idBytes, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := primitive.ObjectIDFromHex(string(idBytes))
		if err != nil {
			return fmt.Errorf("corrupt email index for %q: %w", email, err)
		}
		return getEntity(txn, userKey(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Update saves an existing user, moving the email index if the email changed
func (r *BadgerUserRepository) Update(_ context.Context, user *models.User) error {
	user.BeforeUpdate()
	if err := user.Validate(); err != nil {
		return err
	}

	return update(r.db, func(txn *badger.Txn) error {
		var existing models.User
		err := getEntity(txn, userKey(user.ID), &existing)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		if existing.Email != user.Email {
			if err := claimEmail(txn, user.Email, user.ID); err != nil {
				return err
			}
			if err := txn.Delete(userEmailKey(existing.Email)); err != nil {
				return err
			}
		}

		return setEntity(txn, userKey(user.ID), user)
	})
}

// Delete deletes a user by ID together with its email index entry
func (r *BadgerUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	return update(r.db, func(txn *badger.Txn) error {
		var existing models.User
		err := getEntity(txn, userKey(id), &existing)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(userEmailKey(existing.Email)); err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
}

// claimEmail points the email index at id, failing if another user holds it.
func claimEmail(txn *badger.Txn, email string, id primitive.ObjectID) error {
	item, err := txn.Get(userEmailKey(email))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return err
	default:
		owner, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if string(owner) != id.Hex() {
			return fmt.Errorf("%w: email %s is already registered", models.ErrConflict, email)
		}
	}
	return txn.Set(userEmailKey(email), []byte(id.Hex()))
}
