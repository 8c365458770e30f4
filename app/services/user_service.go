package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"socialnet/app/logger"
	"socialnet/app/models"
	"socialnet/app/repositories"
	"socialnet/app/storage"
)

const userLogPrefix = "User service: "

// CreateUserInput carries the signup form fields.
type CreateUserInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
	Bio      string
}

// UpdateUserInput carries profile edits. Empty fields are left unchanged.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
	Bio      string
}

type loginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type changePasswordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required"`
}

// UserService handles signup, login and profile management
type UserService struct {
	users  repositories.UserRepository
	images storage.ImageStore
	log    *logger.Logger
	cost   int
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, images storage.ImageStore, log *logger.Logger) *UserService {
	return &UserService{
		users:  users,
		images: images,
		log:    log,
		cost:   bcrypt.DefaultCost,
	}
}

// CreateUser registers a new user with a hashed password
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput, profile string) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Profile:  profile,
		Bio:      in.Bio,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: email %s is already registered", models.ErrConflict, in.Email)
		}
		return nil, err
	}

	s.log.Infow(userLogPrefix+"user created", "id", user.ID.Hex())
	return user, nil
}

// GetUser retrieves a user by hex id
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, oid)
}

// UpdateUser overwrites the supplied fields of an existing user
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput, profile string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Password != "" {
		hash, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	previous := user.Profile
	if profile != "" {
		user.Profile = profile
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	// Old image goes only once the record points at the new one.
	if profile != "" && previous != profile {
		removeImage(ctx, s.images, s.log, userLogPrefix, models.RoleUserImages, previous)
	}

	return user, nil
}

// DeleteUser removes a user and, best-effort, their profile image
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	removeImage(ctx, s.images, s.log, userLogPrefix, models.RoleUserImages, user.Profile)

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.log.Infow(userLogPrefix+"user deleted", "id", user.ID.Hex())
	return nil
}

// Login checks credentials and returns the public view of the user
func (s *UserService) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	if err := validateInput(loginInput{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	public := user.Public()
	return &public, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if err := validateInput(changePasswordInput{OldPassword: oldPassword, NewPassword: newPassword}); err != nil {
		return err
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password does not match", models.ErrInvalidCredentials)
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.log.Infow(userLogPrefix+"password changed", "id", user.ID.Hex())
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		// Passwords over 72 bytes end up here.
		return "", fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return string(hash), nil
}
