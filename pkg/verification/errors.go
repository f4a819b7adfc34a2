package verification

import "errors"

var (
	// ErrTokenNotFound indicates the token does not match any pending
	// verification. Expired and already-consumed tokens look the same.
	ErrTokenNotFound = errors.New("verification token not found")

	// ErrAlreadyVerified indicates the account is already verified.
	ErrAlreadyVerified = errors.New("account already verified")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
