package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository implements UserRepository with a mutex-guarded map.
// The mutex serializes the token compare-and-clear exactly like the row lock
// does in Postgres, so it is suitable for exercising the verify/expiry race
// in tests and for running without a database.
type InMemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]User
}

// NewInMemoryUserRepository creates a new in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == params.Username || u.Email == params.Email {
			return User{}, ErrUserExists
		}
	}

	u := User{
		ID:             uuid.New(),
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: params.HashedPassword,
		RegisteredAt:   time.Now().UTC(),
		IsActive:       params.IsActive,
		IsSuperuser:    params.IsSuperuser,
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) FindAll(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].RegisteredAt.Before(users[j].RegisteredAt)
	})
	return users, nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *InMemoryUserRepository) SetVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.VerificationToken = &token
	u.TokenExpiresAt = &expiresAt
	r.users[userID] = u
	return nil
}

func (r *InMemoryUserRepository) ConsumeVerificationToken(ctx context.Context, token string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.IsVerified = true
			u.VerificationToken = nil
			u.TokenExpiresAt = nil
			r.users[id] = u
			return u, nil
		}
	}
	return User{}, ErrTokenNotFound
}

func (r *InMemoryUserRepository) ClearVerificationToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok || u.VerificationToken == nil || *u.VerificationToken != token {
		return false, nil
	}
	u.VerificationToken = nil
	u.TokenExpiresAt = nil
	r.users[userID] = u
	return true, nil
}

func (r *InMemoryUserRepository) FindPendingVerifications(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []User
	for _, u := range r.users {
		if u.VerificationToken != nil && u.TokenExpiresAt != nil {
			users = append(users, u)
		}
	}
	return users, nil
}
