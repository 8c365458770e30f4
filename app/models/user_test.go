package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		wantErr bool
	}{
		{
			name:    "valid user",
			user:    &User{Username: "alice", Email: "alice@example.com", Password: "hash", CreatedAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "missing username",
			user:    &User{Email: "alice@example.com", Password: "hash", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "missing email",
			user:    &User{Username: "alice", Password: "hash", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "missing password",
			user:    &User{Username: "alice", Email: "alice@example.com", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "zero creation time",
			user:    &User{Username: "alice", Email: "alice@example.com", Password: "hash"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserTimestamps(t *testing.T) {
	user := &User{Username: "alice"}
	user.BeforeCreate()
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)

	created := user.CreatedAt
	time.Sleep(5 * time.Millisecond)
	user.BeforeUpdate()
	assert.Equal(t, created, user.CreatedAt)
	assert.True(t, user.UpdatedAt.After(created))
}

func TestUserJSONHidesPassword(t *testing.T) {
	user := &User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Email:    "alice@example.com",
		Password: "$2a$10$secret",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), "secret")
}

func TestUserPublic(t *testing.T) {
	user := &User{ID: primitive.NewObjectID(), Username: "alice", Email: "a@b.c", Password: "x", Bio: "hi", Profile: "p.png"}
	pub := user.Public()
	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, "alice", pub.Username)
	assert.Equal(t, "a@b.c", pub.Email)
	assert.Equal(t, "hi", pub.Bio)
}
