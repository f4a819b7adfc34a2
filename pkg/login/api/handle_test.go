package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-ads/pkg/auth"
	"github.com/tendant/simple-ads/pkg/login"
	"github.com/tendant/simple-ads/pkg/login/api"
	"github.com/tendant/simple-ads/pkg/scheduler"
	"github.com/tendant/simple-ads/pkg/user"
	"github.com/tendant/simple-ads/pkg/verification"
)

type noopDispatcher struct {
	tokens []string
}

func (d *noopDispatcher) Enqueue(ctx context.Context, u user.User, token string) error {
	d.tokens = append(d.tokens, token)
	return nil
}

func setupRouter(t *testing.T) (*chi.Mux, *user.InMemoryUserRepository, *verification.Service, *noopDispatcher) {
	t.Helper()
	repo := user.NewInMemoryUserRepository()
	dispatcher := &noopDispatcher{}
	sched := scheduler.NewExpiryScheduler(repo)
	t.Cleanup(sched.Shutdown)
	verificationService := verification.NewService(repo, dispatcher, sched)
	jwtService := auth.NewJwtServiceOptions("login-api-test-secret")
	handle := api.NewHandle(login.NewService(repo), verificationService, jwtService)

	r := chi.NewRouter()
	api.Routes(r, handle)
	return r, repo, verificationService, dispatcher
}

func postJSON(t *testing.T, router *chi.Mux, target string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(http.MethodPost, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *chi.Mux) []*http.Cookie {
	t.Helper()
	rec := postJSON(t, router, "/register", api.RegisterRequest{
		Username: "erin",
		Email:    "erin@example.com",
		Password: "correct-horse",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/login", api.LoginRequest{
		Username: "erin",
		Password: "correct-horse",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Result().Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRefreshRotatesSession(t *testing.T) {
	router, _, _, _ := setupRouter(t)
	cookies := registerAndLogin(t, router)
	refresh := cookieByName(cookies, login.RefreshTokenCookie)
	require.NotNil(t, refresh)

	rec := postJSON(t, router, "/token/refresh", nil, []*http.Cookie{refresh})
	require.Equal(t, http.StatusOK, rec.Code)

	rotated := rec.Result().Cookies()
	assert.NotNil(t, cookieByName(rotated, login.AccessTokenCookie))
	assert.NotNil(t, cookieByName(rotated, login.RefreshTokenCookie))
}

func TestRefreshMissingCookie(t *testing.T) {
	router, _, _, _ := setupRouter(t)

	rec := postJSON(t, router, "/token/refresh", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshGarbageToken(t *testing.T) {
	router, _, _, _ := setupRouter(t)

	rec := postJSON(t, router, "/token/refresh", nil, []*http.Cookie{
		{Name: login.RefreshTokenCookie, Value: "not-a-jwt"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshDeletedAccount(t *testing.T) {
	router, repo, _, _ := setupRouter(t)
	cookies := registerAndLogin(t, router)
	refresh := cookieByName(cookies, login.RefreshTokenCookie)
	require.NotNil(t, refresh)

	u, err := repo.GetByUsername(context.Background(), "erin")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), u.ID))

	rec := postJSON(t, router, "/token/refresh", nil, []*http.Cookie{refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A refresh after verification carries the current verified flag without a
// new login.
func TestRefreshPicksUpVerifiedFlag(t *testing.T) {
	router, _, verificationService, dispatcher := setupRouter(t)
	cookies := registerAndLogin(t, router)
	refresh := cookieByName(cookies, login.RefreshTokenCookie)
	require.NotNil(t, refresh)
	require.Len(t, dispatcher.tokens, 1)

	_, err := verificationService.Verify(context.Background(), dispatcher.tokens[0])
	require.NoError(t, err)

	rec := postJSON(t, router, "/token/refresh", nil, []*http.Cookie{refresh})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.User.IsVerified)
}
