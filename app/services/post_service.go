package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialnet/app/logger"
	"socialnet/app/models"
	"socialnet/app/repositories"
	"socialnet/app/storage"
)

const postLogPrefix = "Post service: "

// PostInput carries the post form fields. An empty Status means the default on
// create and no change on update.
type PostInput struct {
	Title  string `validate:"required"`
	Body   string `validate:"required"`
	Status string
}

// PostService handles business logic for posts
type PostService struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	images storage.ImageStore
	log    *logger.Logger
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, images storage.ImageStore, log *logger.Logger) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		images: images,
		log:    log,
	}
}

// CreatePost creates a post for the given author
func (s *PostService) CreatePost(ctx context.Context, userID string, in PostInput, image string) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid user id", models.ErrValidation, userID)
	}

	status, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:  in.Title,
		Body:   in.Body,
		UserID: author,
		Status: status,
		Image:  image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Infow(postLogPrefix+"post created", "id", post.ID.Hex(), "user_id", userID)
	return withImageURL(post), nil
}

// GetAllPosts lists every post, newest first, with authors resolved
func (s *PostService) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, posts)
}

// GetPostsByUser lists the posts of one author, newest first
func (s *PostService) GetPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	author, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByUser(ctx, author)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, posts)
}

// UpdatePost replaces title and body and, when supplied, status and image
func (s *PostService) UpdatePost(ctx context.Context, id string, in PostInput, image string) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	changes := models.PostChanges{Title: in.Title, Body: in.Body, Image: image}
	if in.Status != "" {
		if changes.Status, err = models.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	before, err := s.posts.Update(ctx, oid, changes)
	if err != nil {
		return nil, err
	}

	if image != "" && before.Image != image {
		removeImage(ctx, s.images, s.log, postLogPrefix, models.RolePostImages, before.Image)
	}

	after := *before
	after.Apply(changes)
	return withImageURL(&after), nil
}

// DeletePost removes a post and returns it with the raw stored image filename
func (s *PostService) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	removed, err := s.posts.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}

	removeImage(ctx, s.images, s.log, postLogPrefix, models.RolePostImages, removed.Image)

	s.log.Infow(postLogPrefix+"post deleted", "id", id)
	return removed, nil
}

// AddComment appends a comment to a post
func (s *PostService) AddComment(ctx context.Context, id, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment is required", models.ErrValidation)
	}

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.AddComment(ctx, oid, text)
	if err != nil {
		return nil, err
	}
	return withImageURL(post), nil
}

// LikePost increments the like counter of a post
func (s *PostService) LikePost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.IncrementLikes(ctx, oid)
	if err != nil {
		return nil, err
	}
	return withImageURL(post), nil
}

// present resolves authors and rewrites image names. An empty list is reported as not found.
func (s *PostService) present(ctx context.Context, posts []*models.Post) ([]*models.Post, error) {
	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: no posts", models.ErrNotFound)
	}

	authors := make(map[primitive.ObjectID]*models.User)
	for _, post := range posts {
		author, seen := authors[post.UserID]
		if !seen {
			user, err := s.users.GetByID(ctx, post.UserID)
			switch {
			case errors.Is(err, models.ErrNotFound):
			case err != nil:
				return nil, fmt.Errorf("failed to resolve author of post %s: %w", post.ID.Hex(), err)
			default:
				author = user
			}
			authors[post.UserID] = author
		}
		post.User = author
		post.Image = models.ImageURL(models.RolePostImages, post.Image)
	}
	return posts, nil
}

func withImageURL(post *models.Post) *models.Post {
	out := *post
	out.Image = models.ImageURL(models.RolePostImages, post.Image)
	return &out
}
