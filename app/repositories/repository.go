package repositories

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Repository owns the Badger database shared by the Badger-backed repositories.
type Repository struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	inMemory bool
}

// NewRepository opens the Badger database at path. An empty path opens an
// in-memory database, which is what the tests use.
func NewRepository(path string) (*Repository, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	inMemory := path == ""
	if inMemory {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &Repository{
		db:       db,
		dbPath:   path,
		inMemory: inMemory,
	}, nil
}

// DB exposes the underlying handle.
func (r *Repository) DB() *badger.DB {
	return r.db
}

// Path returns the on-disk location, empty for in-memory databases.
func (r *Repository) Path() string {
	return r.dbPath
}

// Users returns a user repository backed by this database.
func (r *Repository) Users() *BadgerUserRepository {
	return NewBadgerUserRepository(r.db)
}

// Posts returns a post repository backed by this database.
func (r *Repository) Posts() *BadgerPostRepository {
	return NewBadgerPostRepository(r.db)
}

// Store bundles both repositories with this database's teardown.
func (r *Repository) Store() *Store {
	return NewStore(r.Users(), r.Posts(), func(context.Context) error {
		return r.Close()
	})
}

// Close closes the database.
func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.db == nil || r.db.IsClosed() {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}
	return nil
}

// Clear drops every key.
func (r *Repository) Clear() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.DropAll()
}

// Backup writes a full backup of the database to w.
func (r *Repository) Backup(w io.Writer) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (r *Repository) Restore(rd io.Reader) (err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	// Load panics on some malformed inputs instead of returning an error.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("failed to restore database: corrupt backup: %v", p)
		}
	}()
	if err := r.db.Load(rd, 16); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}
