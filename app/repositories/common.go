package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix = "user:"
	PostKeyPrefix = "post:"

	// Secondary index prefixes
	UserEmailKeyPrefix = "idx:user_email:"
	PostUserKeyPrefix  = "idx:post_user:"
)

func userKey(id primitive.ObjectID) []byte {
	return []byte(UserKeyPrefix + id.Hex())
}

func userEmailKey(email string) []byte {
	return []byte(UserEmailKeyPrefix + email)
}

func postKey(id primitive.ObjectID) []byte {
	return []byte(PostKeyPrefix + id.Hex())
}

// postUserKey indexes a post under its author so listing by user is a prefix scan.
func postUserKey(userID, postID primitive.ObjectID) []byte {
	return []byte(PostUserKeyPrefix + userID.Hex() + ":" + postID.Hex())
}

func postUserPrefix(userID primitive.ObjectID) []byte {
	return []byte(PostUserKeyPrefix + userID.Hex() + ":")
}

// Retries made by update before a transaction conflict is returned to the caller.
const maxTxnRetries = 100

// update runs fn in a read-write transaction, retrying with jittered backoff when a
// concurrent writer committed a key fn read. fn must not keep state across attempts.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond
	b.MaxInterval = 10 * time.Millisecond
	b.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		err := db.Update(fn)
		if err != nil && !errors.Is(err, badger.ErrConflict) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithMaxRetries(b, maxTxnRetries))
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("transaction gave up after %d retries: %w", maxTxnRetries, err)
	}
	return err
}

// marshalEntity encodes an entity as a BSON document
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := bson.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity decodes a BSON document into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := bson.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads and decodes the value stored under key. It returns
// badger.ErrKeyNotFound untouched so callers can map it.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity encodes and stores entity under key
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
