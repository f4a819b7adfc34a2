package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenClearer is the slice of the credential store the scheduler needs: a
// compare-and-clear on the user's verification token.
type TokenClearer interface {
	ClearVerificationToken(ctx context.Context, userID uuid.UUID, token string) (bool, error)
}

// ExpiryScheduler runs delayed one-shot jobs that clear verification tokens
// once their lifetime elapses. Jobs are fire-and-forget: callers never wait
// on them, and a fire that loses the race against a verify or a re-issue is
// a no-op because the clear compares the token value before nulling it.
//
// At most one job is armed per user. Scheduling for a user who already has a
// pending job replaces it, which is how a re-issue cancels the previous
// expiration. Durability comes from the store, not from the timers: the
// token deadline is persisted on the user row and pending jobs are re-armed
// from it at startup.
type ExpiryScheduler struct {
	store       TokenClearer
	fireTimeout time.Duration

	mu     sync.Mutex
	jobs   map[uuid.UUID]*clearJob
	closed bool

	wg  sync.WaitGroup
	sem chan struct{}
}

type clearJob struct {
	token string
	timer *time.Timer
}

// Option configures an ExpiryScheduler.
type Option func(*ExpiryScheduler)

// WithWorkerLimit bounds how many clear jobs may run concurrently.
func WithWorkerLimit(n int) Option {
	return func(s *ExpiryScheduler) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// WithFireTimeout sets the per-fire store timeout.
func WithFireTimeout(d time.Duration) Option {
	return func(s *ExpiryScheduler) {
		s.fireTimeout = d
	}
}

// NewExpiryScheduler creates a scheduler clearing tokens through store.
func NewExpiryScheduler(store TokenClearer, opts ...Option) *ExpiryScheduler {
	s := &ExpiryScheduler{
		store:       store,
		fireTimeout: 10 * time.Second,
		jobs:        make(map[uuid.UUID]*clearJob),
		sem:         make(chan struct{}, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleClear arms a one-shot clear of token for userID after delay,
// replacing any job already pending for the user. A non-positive delay fires
// immediately.
func (s *ExpiryScheduler) ScheduleClear(userID uuid.UUID, token string, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if prev, ok := s.jobs[userID]; ok {
		prev.timer.Stop()
	}

	job := &clearJob{token: token}
	job.timer = time.AfterFunc(delay, func() {
		s.fire(userID, job)
	})
	s.jobs[userID] = job

	slog.Debug("Expiration job armed", "user_id", userID, "delay", delay)
}

// Cancel drops the pending job for userID, if any.
func (s *ExpiryScheduler) Cancel(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[userID]; ok {
		job.timer.Stop()
		delete(s.jobs, userID)
	}
}

// Shutdown stops all pending timers and waits for in-flight fires.
func (s *ExpiryScheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for userID, job := range s.jobs {
		job.timer.Stop()
		delete(s.jobs, userID)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ExpiryScheduler) fire(userID uuid.UUID, job *clearJob) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Only forget the job if it is still ours; a newer job for the same
	// user must stay armed.
	if cur, ok := s.jobs[userID]; ok && cur == job {
		delete(s.jobs, userID)
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.sem <- struct{}{}
	defer func() {
		<-s.sem
		s.wg.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.fireTimeout)
	defer cancel()

	cleared, err := s.store.ClearVerificationToken(ctx, userID, job.token)
	if err != nil {
		slog.Error("Failed to clear expired verification token", "user_id", userID, "err", err)
		return
	}
	if cleared {
		slog.Info("Verification token expired", "user_id", userID)
	} else {
		// Already verified, already cleared, or superseded by a newer
		// token. Nothing to do.
		slog.Debug("Stale expiration fire", "user_id", userID)
	}
}
