package repositories

import (
	"bytes"
	"context"
	"testing"
	"time"

	"socialnet/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository("")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMarshalEntity(t *testing.T) {
	t.Run("user keeps password in storage", func(t *testing.T) {
		user := &models.User{
			ID:        primitive.NewObjectID(),
			Username:  "alice",
			Email:     "alice@example.com",
			Password:  "hash",
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}

		data, err := marshalEntity(user)
		require.NoError(t, err)

		var decoded models.User
		require.NoError(t, unmarshalEntity(data, &decoded))
		assert.Equal(t, user.ID, decoded.ID)
		assert.Equal(t, "hash", decoded.Password)
		assert.True(t, user.CreatedAt.Equal(decoded.CreatedAt))
	})

	t.Run("post drops resolved user", func(t *testing.T) {
		post := &models.Post{
			ID:       primitive.NewObjectID(),
			Title:    "Hi",
			Body:     "World",
			User:     &models.User{Username: "alice"},
			Comments: []string{"first", "second"},
		}

		data, err := marshalEntity(post)
		require.NoError(t, err)

		var decoded models.Post
		require.NoError(t, unmarshalEntity(data, &decoded))
		assert.Nil(t, decoded.User)
		assert.Equal(t, []string{"first", "second"}, decoded.Comments)
	})

	t.Run("invalid data", func(t *testing.T) {
		var decoded models.Post
		assert.Error(t, unmarshalEntity([]byte("not bson"), &decoded))
	})
}

func TestRepositoryBackupRestore(t *testing.T) {
	source := setupTestRepository(t)
	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, source.Users().Create(context.Background(), user))

	var buf bytes.Buffer
	require.NoError(t, source.Backup(&buf))
	assert.NotZero(t, buf.Len())

	target := setupTestRepository(t)
	require.NoError(t, target.Restore(&buf))

	restored, err := target.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", restored.Username)
}

func TestRepositoryClear(t *testing.T) {
	repo := setupTestRepository(t)
	post := &models.Post{Title: "Hi", Body: "World", UserID: primitive.NewObjectID()}
	require.NoError(t, repo.Posts().Create(context.Background(), post))

	require.NoError(t, repo.Clear())

	posts, err := repo.Posts().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestRepositoryCloseTwice(t *testing.T) {
	repo, err := NewRepository("")
	require.NoError(t, err)
	assert.NoError(t, repo.Close())
	assert.NoError(t, repo.Close())
}
