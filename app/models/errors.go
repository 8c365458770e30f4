package models

import "errors"

// Error kinds shared by stores, services and controllers. Anything that does not
// wrap one of these is treated as a storage failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUpload             = errors.New("upload rejected")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("record already exists")
)
