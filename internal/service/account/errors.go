package account

import "errors"

var (
	ErrEmailTaken   = errors.New("email is already registered")
	ErrInvalidEmail = errors.New("invalid email")
	ErrUserNotFound = errors.New("user not found")
)
