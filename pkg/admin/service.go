package admin

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/tendant/simple-ads/pkg/utils"
)

const sessionTokenLength = 64

var ErrInvalidSession = errors.New("invalid admin session")

// Credentials are the static admin panel credentials.
type Credentials struct {
	Username string
	Password string
}

type session struct {
	expiresAt time.Time
}

// Service manages admin panel sessions. Sessions live in memory; restarting
// the process logs every admin out.
type Service struct {
	creds      Credentials
	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[string]session
}

type Option func(*Service)

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

func NewService(creds Credentials, opts ...Option) *Service {
	s := &Service{
		creds:      creds,
		sessionTTL: 2 * time.Hour,
		sessions:   make(map[string]session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials and returns a new session token.
func (s *Service) Login(username, password string) (string, error) {
	userOk := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username))
	passOk := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password))
	if userOk&passOk != 1 {
		return "", ErrInvalidSession
	}

	token := utils.GenerateRandomString(sessionTokenLength)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.sessions[token] = session{expiresAt: time.Now().Add(s.sessionTTL)}

	slog.Info("Admin logged in", "username", username)
	return token, nil
}

// Validate reports whether the token belongs to a live session.
func (s *Service) Validate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[token]
	if !exists {
		return false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Logout removes the session.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Service) pruneLocked() {
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}
