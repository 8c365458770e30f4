package models

import (
	"fmt"
	"time"
)

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if u.CreatedAt.IsZero() {
		return fmt.Errorf("%w: createdAt cannot be zero", ErrValidation)
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
}

// BeforeUpdate refreshes the modification time
func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
}

// Public returns the login projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
	}
}
