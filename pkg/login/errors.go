package login

import "errors"

var (
	// ErrInvalidCredentials covers unknown identifier and wrong password
	// alike, so responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled indicates the account exists but is deactivated.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrInvalidRegistration indicates the registration request failed
	// validation.
	ErrInvalidRegistration = errors.New("invalid registration")
)
