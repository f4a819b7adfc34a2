package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-ads/pkg/advertisement"
	"github.com/tendant/simple-ads/pkg/advertisement/api"
	"github.com/tendant/simple-ads/pkg/auth"
	"github.com/tendant/simple-ads/pkg/login"
)

const testSecret = "advertisement-test-secret"

// setupRouter mounts the routes the way the server does: reads open,
// mutations behind a verified session.
func setupRouter(t *testing.T) (*chi.Mux, *advertisement.InMemoryAdvertisementRepository) {
	t.Helper()
	repo := advertisement.NewInMemoryAdvertisementRepository()
	handle := api.NewHandle(advertisement.NewService(repo))
	tokenAuth := jwtauth.New("HS256", []byte(testSecret), nil)

	r := chi.NewRouter()
	api.Routes(r, handle)
	r.Group(func(r chi.Router) {
		r.Use(login.Verifier(tokenAuth))
		r.Use(login.AuthUserMiddleware)
		r.Use(login.RequireVerified)
		api.AuthRoutes(r, handle)
	})
	return r, repo
}

func sessionToken(t *testing.T, verified bool) string {
	t.Helper()
	jwtService := auth.NewJwtServiceOptions(testSecret)
	token, err := jwtService.CreateAccessToken(login.AuthUser{
		UserID:   uuid.New().String(),
		Username: "dave",
		Verified: verified,
	})
	require.NoError(t, err)
	return token.Token
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedAd(t *testing.T, repo *advertisement.InMemoryAdvertisementRepository) advertisement.Advertisement {
	t.Helper()
	ad, err := repo.Create(context.Background(), advertisement.CreateAdvertisementParams{
		Title:  "bike",
		Author: "dave",
	})
	require.NoError(t, err)
	return ad
}

func TestListAndGetArePublic(t *testing.T) {
	router, repo := setupRouter(t)
	ad := seedAd(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AdvertisementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ad.Title, resp.Title)
}

func TestMutationsRequireSession(t *testing.T) {
	router, repo := setupRouter(t)
	ad := seedAd(t, repo)

	update := api.AdvertisementRequest{ID: ad.ID, Title: "scooter", Author: ad.Author}

	req := jsonRequest(t, http.MethodPut, "/", update)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stored, err := repo.GetByID(context.Background(), ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "bike", stored.Title)
}

func TestMutationsRequireVerifiedAccount(t *testing.T) {
	router, repo := setupRouter(t)
	ad := seedAd(t, repo)
	token := sessionToken(t, false)

	req := jsonRequest(t, http.MethodPut, "/", api.AdvertisementRequest{ID: ad.ID, Title: "scooter", Author: ad.Author})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := repo.GetByID(context.Background(), ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "bike", stored.Title)
}

func TestMutationsWithVerifiedSession(t *testing.T) {
	router, repo := setupRouter(t)
	token := sessionToken(t, true)

	req := jsonRequest(t, http.MethodPost, "/", api.AdvertisementRequest{Title: "bike", Author: "dave"})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created api.AdvertisementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = jsonRequest(t, http.MethodPut, "/", api.AdvertisementRequest{ID: created.ID, Title: "scooter", Author: "dave"})
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "scooter", stored.Title)

	req = httptest.NewRequest(http.MethodDelete, "/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = repo.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, advertisement.ErrAdvertisementNotFound)
}
