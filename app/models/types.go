package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Image roles, used as the directory under the upload root.
const (
	RoleUserImages = "user_images"
	RolePostImages = "post_images"
)

// PostStatus is the publication state of a post. Any status may move to any other.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

// User represents a registered member.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required"`
	Password  string             `bson:"password" json:"-" validate:"required"`
	Profile   string             `bson:"profile" json:"profile"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the projection returned after a successful login.
type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Bio      string             `json:"bio,omitempty"`
}

// Post represents a user's post with its flat comment list.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Body      string             `bson:"body" json:"body" validate:"required"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	User      *User              `bson:"-" json:"user,omitempty" validate:"-"`
	Status    PostStatus         `bson:"status" json:"status" validate:"required,oneof=draft published archived"`
	Image     string             `bson:"image" json:"image"`
	LikeCount int                `bson:"like_count" json:"like_count" validate:"gte=0"`
	Comments  []string           `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// PostChanges lists the fields an atomic post update may touch. Empty Status and
// Image leave the stored values unchanged.
type PostChanges struct {
	Title  string
	Body   string
	Status PostStatus
	Image  string
}
