package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	calls []clearCall
}

type clearCall struct {
	userID uuid.UUID
	token  string
}

func (s *fakeStore) ClearVerificationToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, clearCall{userID: userID, token: token})
	return true, nil
}

func (s *fakeStore) Calls() []clearCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]clearCall, len(s.calls))
	copy(out, s.calls)
	return out
}

func TestScheduleClearFires(t *testing.T) {
	store := &fakeStore{}
	s := NewExpiryScheduler(store)
	defer s.Shutdown()

	userID := uuid.New()
	s.ScheduleClear(userID, "token", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(store.Calls()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "token", store.Calls()[0].token)
	assert.Equal(t, userID, store.Calls()[0].userID)
}

func TestScheduleClearReplacesPrevious(t *testing.T) {
	store := &fakeStore{}
	s := NewExpiryScheduler(store)
	defer s.Shutdown()

	userID := uuid.New()
	s.ScheduleClear(userID, "old", 20*time.Millisecond)
	s.ScheduleClear(userID, "new", 40*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	calls := store.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "new", calls[0].token)
}

func TestCancel(t *testing.T) {
	store := &fakeStore{}
	s := NewExpiryScheduler(store)
	defer s.Shutdown()

	userID := uuid.New()
	s.ScheduleClear(userID, "token", 20*time.Millisecond)
	s.Cancel(userID)

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, store.Calls())
}

func TestShutdownStopsPendingJobs(t *testing.T) {
	store := &fakeStore{}
	s := NewExpiryScheduler(store)

	s.ScheduleClear(uuid.New(), "token", 20*time.Millisecond)
	s.Shutdown()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, store.Calls())
}
