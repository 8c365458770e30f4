package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"socialnet/app/models"
	"socialnet/app/storage"
)

// Memory kept for multipart parts before they spill to temp files.
const maxMemory = 1 << 20

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

var allowedDeclared = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Uploader validates a single image part of a multipart request and writes it to an ImageStore.
type Uploader struct {
	store    storage.ImageStore
	maxBytes int64
	now      func() time.Time
}

func NewUploader(store storage.ImageStore, maxBytes int64) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes, now: time.Now}
}

// Save reads the file part named field and stores it under role. It returns the stored
// filename, or "" when the request carries no such part. Non-multipart bodies are parsed
// as plain forms so the caller can still read text fields.
func (u *Uploader) Save(w http.ResponseWriter, r *http.Request, field, role string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			if err := r.ParseForm(); err != nil {
				return "", uploadError(err)
			}
			return "", nil
		}
		return "", uploadError(err)
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", uploadError(err)
	}
	defer file.Close()

	ext, err := checkFile(file, header)
	if err != nil {
		return "", err
	}

	filename := strconv.FormatInt(u.now().UnixMilli(), 10) + "-" + uuid.NewString() + ext
	key, err := storage.Key(role, filename)
	if err != nil {
		return "", err
	}
	if err := u.store.Save(r.Context(), key, file); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return filename, nil
}

// Discard removes a stored upload whose record was never written.
func (u *Uploader) Discard(ctx context.Context, role, filename string) error {
	if filename == "" {
		return nil
	}
	key, err := storage.Key(role, filename)
	if err != nil {
		return err
	}
	return u.store.Remove(ctx, key)
}

func checkFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: only jpeg, jpg and png images are allowed, got extension %q", models.ErrUpload, ext)
	}

	declared := strings.ToLower(header.Header.Get("Content-Type"))
	if !allowedDeclared[declared] {
		return "", fmt.Errorf("%w: only jpeg, jpg and png images are allowed, got type %q", models.ErrUpload, declared)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", uploadError(err)
	}
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") {
		return "", fmt.Errorf("%w: file content is %s, not an image", models.ErrUpload, mtype.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", uploadError(err)
	}
	return ext, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: file exceeds %d bytes", models.ErrUpload, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", models.ErrUpload, err)
}
