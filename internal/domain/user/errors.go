package user

import "errors"

// Domain errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered to another account")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrStorageUnavailable = errors.New("user storage unavailable")
)
