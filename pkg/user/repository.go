package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the credential store operations. The token methods
// must be atomic at the row level: a verify and an expiry fire racing on the
// same token are serialized by the store, and the loser observes the token as
// already gone.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SetVerificationToken stores token as the user's live verification
	// token, overwriting any previous one.
	SetVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// ConsumeVerificationToken marks the holder of token as verified and
	// clears the token in a single update. Returns ErrTokenNotFound when no
	// user holds the token.
	ConsumeVerificationToken(ctx context.Context, token string) (User, error)

	// ClearVerificationToken clears the user's token only when it still
	// equals token. A stale clear is a no-op and reports cleared=false.
	ClearVerificationToken(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// FindPendingVerifications returns users holding a live token with a
	// deadline, used to re-arm expiry jobs after a restart.
	FindPendingVerifications(ctx context.Context) ([]User, error)
}
