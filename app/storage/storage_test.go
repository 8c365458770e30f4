package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "user image", role: "user_images", filename: "1-a.png", want: "user_images/1-a.png"},
		{name: "post image", role: "post_images", filename: "2-b.jpg", want: "post_images/2-b.jpg"},
		{name: "unknown role", role: "avatars", filename: "a.png", wantErr: true},
		{name: "empty filename", role: "user_images", filename: "", wantErr: true},
		{name: "traversal", role: "user_images", filename: "..", wantErr: true},
		{name: "nested path", role: "post_images", filename: "../../etc/passwd", wantErr: true},
		{name: "backslash", role: "post_images", filename: `..\x.png`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Key(tt.role, tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "uploads")
	store := NewDiskStore(root)
	data := []byte("\x89PNG\r\n\x1a\nimage")

	t.Run("save creates directories", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "post_images/a.png", bytes.NewReader(data)))

		onDisk, err := os.ReadFile(filepath.Join(root, "post_images", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, data, onDisk)
	})

	t.Run("open returns exact bytes", func(t *testing.T) {
		rc, err := store.Open(ctx, "post_images/a.png")
		require.NoError(t, err)
		defer rc.Close()

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "post_images/a.png"))
		assert.ErrorIs(t, store.Remove(ctx, "post_images/a.png"), ErrImageNotFound)

		_, err := store.Open(ctx, "post_images/a.png")
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("rejects bad keys", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, "../escape.png", bytes.NewReader(data)), ErrInvalidKey)
		_, err := store.Open(ctx, "user_images")
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.ErrorIs(t, store.Remove(ctx, "user_images/../../x"), ErrInvalidKey)
	})
}
