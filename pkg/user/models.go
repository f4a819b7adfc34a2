package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the credential store.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	RegisteredAt   time.Time
	IsActive       bool
	IsSuperuser    bool
	IsVerified     bool

	// VerificationToken is the single live token for the account, nil when
	// none is pending. TokenExpiresAt is the deadline the expiry scheduler
	// re-arms from after a restart.
	VerificationToken *string
	TokenExpiresAt    *time.Time
}

// CreateUserParams carries the fields required to create a user.
type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
}
