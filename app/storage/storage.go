package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"socialnet/app/models"
)

// ErrImageNotFound is returned when no image is stored under a key.
var ErrImageNotFound = errors.New("image not found")

// ErrInvalidKey is returned for keys that do not name a known role and a plain filename.
var ErrInvalidKey = errors.New("invalid image key")

// ImageStore persists uploaded image bytes under keys of the form <role>/<filename>.
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// Key builds the store key for a filename of the given role.
func Key(role, filename string) (string, error) {
	if role != models.RoleUserImages && role != models.RolePostImages {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidKey, role)
	}
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || path.Base(filename) != filename {
		return "", fmt.Errorf("%w: bad filename %q", ErrInvalidKey, filename)
	}
	return role + "/" + filename, nil
}

// CheckKey validates a key produced by Key.
func CheckKey(key string) error {
	role, filename, ok := strings.Cut(key, "/")
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	_, err := Key(role, filename)
	return err
}
