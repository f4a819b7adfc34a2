package login

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

const (
	// AccessTokenCookie carries the session JWT.
	AccessTokenCookie = "bonds"
	// RefreshTokenCookie carries the refresh JWT.
	RefreshTokenCookie = "bondsRefresh"
)

// AuthUser is the authenticated identity extracted from JWT claims.
type AuthUser struct {
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Verified  bool   `json:"verified,omitempty"`
	Superuser bool   `json:"superuser,omitempty"`
	// UserID as uuid.UUID, parsed from UserID for direct use.
	UserUuid uuid.UUID
}

func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", u.UserID),
		slog.String("username", u.Username),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "login context value " + k.name
}

var AuthUserKey = &contextKey{"AuthUser"}

// TokenFromCookie extracts the session JWT from the access token cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Verifier checks the JWT from the Authorization header or the session
// cookie and stores the parse result in the request context.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

// AuthUserMiddleware requires a valid JWT and places the AuthUser parsed
// from its custom claims into the request context.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			http.Error(w, fmt.Sprintf("missing or invalid JWT: %v", err), http.StatusUnauthorized)
			return
		}

		customClaims, ok := claims["custom_claims"].(map[string]interface{})
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		authUser := new(AuthUser)
		if err := LoadFromMap(customClaims, authUser); err != nil {
			slog.Error("Failed to parse token claims", "err", err)
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userUuid, err := uuid.Parse(authUser.UserID)
		if err != nil {
			http.Error(w, "invalid user id in token", http.StatusUnauthorized)
			return
		}
		authUser.UserUuid = userUuid

		ctx := contextWithAuthUser(r.Context(), authUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireVerified rejects sessions whose account has not completed email
// verification. Mount after AuthUserMiddleware.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, ok := AuthUserFromContext(r.Context())
		if !ok {
			http.Error(w, "missing or invalid JWT", http.StatusUnauthorized)
			return
		}
		if !authUser.Verified {
			http.Error(w, "account not verified", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
