package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"socialnet/app/models"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ PostRepository = (*BadgerPostRepository)(nil)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(_ context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}

	return update(r.db, func(txn *badger.Txn) error {
		if err := setEntity(txn, postKey(post.ID), post); err != nil {
			return err
		}
		return txn.Set(postUserKey(post.UserID, post.ID), nil)
	})
}

// List retrieves every post, newest first
func (r *BadgerPostRepository) List(_ context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	sortNewestFirst(posts)
	return posts, nil
}

// ListByUser retrieves the posts of one user through the author index, newest first
func (r *BadgerPostRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := postUserPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			hex := string(it.Item().Key()[len(prefix):])
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return fmt.Errorf("corrupt author index entry %q: %w", hex, err)
			}

			var post models.Post
			err = getEntity(txn, postKey(id), &post)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by user: %w", err)
	}

	sortNewestFirst(posts)
	return posts, nil
}

// Update applies changes inside a single transaction and returns the previous record
func (r *BadgerPostRepository) Update(_ context.Context, id primitive.ObjectID, changes models.PostChanges) (*models.Post, error) {
	var before models.Post
	err := r.modify(id, func(post *models.Post) {
		before = *post
		post.Apply(changes)
	})
	if err != nil {
		return nil, err
	}
	return &before, nil
}

// Delete deletes a post by ID and returns it
func (r *BadgerPostRepository) Delete(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := update(r.db, func(txn *badger.Txn) error {
		err := getEntity(txn, postKey(id), &post)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(postUserKey(post.UserID, id)); err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// AddComment appends a comment and returns the updated post
func (r *BadgerPostRepository) AddComment(_ context.Context, id primitive.ObjectID, comment string) (*models.Post, error) {
	var after models.Post
	err := r.modify(id, func(post *models.Post) {
		post.Comments = append(post.Comments, comment)
		after = *post
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

// IncrementLikes bumps like_count by one and returns the updated post
func (r *BadgerPostRepository) IncrementLikes(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	var after models.Post
	err := r.modify(id, func(post *models.Post) {
		post.LikeCount++
		after = *post
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

// modify loads, mutates, validates and saves a post in one read-write transaction.
// Badger aborts the commit on a conflicting concurrent write and update retries it.
func (r *BadgerPostRepository) modify(id primitive.ObjectID, mutate func(post *models.Post)) error {
	return update(r.db, func(txn *badger.Txn) error {
		var post models.Post
		err := getEntity(txn, postKey(id), &post)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		mutate(&post)
		if err := post.Validate(); err != nil {
			return err
		}
		return setEntity(txn, postKey(id), &post)
	})
}

func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID.Hex() > posts[j].ID.Hex()
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
