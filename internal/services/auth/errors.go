package auth

import "errors"

var (
	ErrUserAlreadyExists = errors.New("user with this email or username already exists")
	// ErrInvalidCredentials covers both unknown identity and wrong password
	// so the two cases cannot be told apart.
	ErrInvalidCredentials = errors.New("incorrect credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)
