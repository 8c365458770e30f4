package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostValidation(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				Title:     "Hi",
				Body:      "World",
				UserID:    userID,
				Status:    StatusDraft,
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "missing title",
			post: &Post{
				Body:      "World",
				UserID:    userID,
				Status:    StatusDraft,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing body",
			post: &Post{
				Title:     "Hi",
				UserID:    userID,
				Status:    StatusDraft,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing user reference",
			post: &Post{
				Title:     "Hi",
				Body:      "World",
				Status:    StatusDraft,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			post: &Post{
				Title:     "Hi",
				Body:      "World",
				UserID:    userID,
				Status:    PostStatus("deleted"),
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "negative like count",
			post: &Post{
				Title:     "Hi",
				Body:      "World",
				UserID:    userID,
				Status:    StatusPublished,
				LikeCount: -1,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			post: &Post{
				Title:  "Hi",
				Body:   "World",
				UserID: userID,
				Status: StatusArchived,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{Title: "Hi", Body: "World"}

	assert.True(t, post.CreatedAt.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, StatusDraft, post.Status)
	assert.NotNil(t, post.Comments)
	assert.Zero(t, post.LikeCount)
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"draft", "published", "archived"} {
		s, err := ParseStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, PostStatus(raw), s)
	}

	s, err := ParseStatus("")
	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, s)

	_, err = ParseStatus("Published")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostApply(t *testing.T) {
	post := &Post{Title: "old", Body: "old body", Status: StatusDraft, Image: "a.png"}

	post.Apply(PostChanges{Title: "new", Body: "new body"})
	assert.Equal(t, "new", post.Title)
	assert.Equal(t, "new body", post.Body)
	assert.Equal(t, StatusDraft, post.Status)
	assert.Equal(t, "a.png", post.Image)

	post.Apply(PostChanges{Title: "new", Body: "new body", Status: StatusArchived, Image: "b.png"})
	assert.Equal(t, StatusArchived, post.Status)
	assert.Equal(t, "b.png", post.Image)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL(RolePostImages, ""))
	assert.Equal(t, "/uploads/post_images/1-a.png", ImageURL(RolePostImages, "1-a.png"))
	assert.Equal(t, "/uploads/user_images/1-a.jpg", ImageURL(RoleUserImages, "1-a.jpg"))
}
