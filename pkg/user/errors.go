package user

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrTokenNotFound is returned when no user holds the presented
	// verification token.
	ErrTokenNotFound = errors.New("verification token not found")
)
