package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-ads/pkg/user"
	"github.com/tendant/simple-ads/pkg/utils"
)

const tokenLength = 64 // hex chars, 32 random bytes

// UserStore is the persistence surface the verification service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	SetVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, token string) (user.User, error)
	FindPendingVerifications(ctx context.Context) ([]user.User, error)
}

// Dispatcher delivers the verification email for a freshly issued token.
type Dispatcher interface {
	Enqueue(ctx context.Context, u user.User, token string) error
}

// Scheduler arms and cancels the one-shot token expiration jobs.
type Scheduler interface {
	ScheduleClear(userID uuid.UUID, token string, delay time.Duration)
	Cancel(userID uuid.UUID)
}

// Service issues, verifies, and expires account verification tokens.
type Service struct {
	store      UserStore
	dispatcher Dispatcher
	scheduler  Scheduler
	tokenTTL   time.Duration

	// issueMu keeps persisting a token and arming its expiration job a
	// single step, so overlapping Issue calls for one user cannot leave
	// the job armed with a superseded token.
	issueMu sync.Mutex
}

type Option func(*Service)

// WithTokenTTL overrides the default 24h token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func NewService(store UserStore, dispatcher Dispatcher, scheduler Scheduler, opts ...Option) *Service {
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		tokenTTL:   24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates a fresh token for the user, persists it, schedules its
// expiration, and dispatches the verification email. A previously issued
// token is overwritten and its expiration job replaced, so only the newest
// token stays valid.
func (s *Service) Issue(ctx context.Context, u user.User) (string, error) {
	if u.IsVerified {
		return "", ErrAlreadyVerified
	}

	token := utils.GenerateRandomString(tokenLength)
	expiresAt := time.Now().UTC().Add(s.tokenTTL)

	s.issueMu.Lock()
	if err := s.store.SetVerificationToken(ctx, u.ID, token, expiresAt); err != nil {
		s.issueMu.Unlock()
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to store verification token: %w", err)
	}
	s.scheduler.ScheduleClear(u.ID, token, s.tokenTTL)
	s.issueMu.Unlock()

	if err := s.dispatcher.Enqueue(ctx, u, token); err != nil {
		// The token is already persisted and can be re-requested, so a
		// delivery failure is logged rather than propagated.
		slog.Error("Failed to dispatch verification email", "user", u.ID, "err", err)
	}

	slog.Info("Issued verification token", "user", u.ID, "expires_at", expiresAt)
	return token, nil
}

// RequestVerification re-issues a verification token for an existing,
// unverified user. The verified check reads current state, never claims
// cached in a session token.
func (s *Service) RequestVerification(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	return s.Issue(ctx, u)
}

// Verify consumes the token: it atomically marks the matching user verified
// and clears the stored token, then cancels the pending expiration job. An
// empty, unknown, expired, or already-consumed token yields ErrTokenNotFound.
func (s *Service) Verify(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, ErrTokenNotFound
	}

	u, err := s.store.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, user.ErrTokenNotFound) {
			return user.User{}, ErrTokenNotFound
		}
		return user.User{}, fmt.Errorf("failed to consume verification token: %w", err)
	}

	s.scheduler.Cancel(u.ID)

	slog.Info("Verified account", "user", u.ID)
	return u, nil
}

// IsVerified reports the user's current verification state.
func (s *Service) IsVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return u.IsVerified, nil
}

// RearmPending re-arms expiration jobs for tokens that survived a restart.
// Tokens already past their deadline are scheduled to clear immediately.
func (s *Service) RearmPending(ctx context.Context) error {
	pending, err := s.store.FindPendingVerifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending verifications: %w", err)
	}

	now := time.Now().UTC()
	for _, u := range pending {
		if u.VerificationToken == nil || u.TokenExpiresAt == nil {
			continue
		}
		delay := u.TokenExpiresAt.Sub(now)
		if delay < 0 {
			delay = 0
		}
		s.scheduler.ScheduleClear(u.ID, *u.VerificationToken, delay)
	}

	slog.Info("Re-armed pending verification expirations", "count", len(pending))
	return nil
}
