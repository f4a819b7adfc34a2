package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Jwt struct {
	Secret         string
	CookieHttpOnly bool
	CookieSecure   bool
}

type Option func(*Jwt)

func WithCookieHttpOnly(httpOnly bool) Option {
	return func(j *Jwt) {
		j.CookieHttpOnly = httpOnly
	}
}

func WithCookieSecure(secure bool) Option {
	return func(j *Jwt) {
		j.CookieSecure = secure
	}
}

func NewJwtServiceOptions(secret string, opts ...Option) *Jwt {
	jwtSvc := &Jwt{Secret: secret}

	for _, opt := range opts {
		opt(jwtSvc)
	}

	return jwtSvc
}

type Claims struct {
	CustomClaims interface{} `json:"custom_claims"`
	jwt.RegisteredClaims
}

// AuthToken is a signed token together with its expiry, so callers can set
// cookie lifetimes without re-parsing the token.
type AuthToken struct {
	Token  string
	Expiry time.Time
}

func (j Jwt) CreateTokenStr(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(j.Secret))
	if err != nil {
		slog.Error("Failed sign JWT claim string!", "err", err)
		return "", err
	}
	return ss, nil
}

func (j Jwt) CreateAccessToken(claimData interface{}) (AuthToken, error) {
	claims := Claims{
		claimData,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(30 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			NotBefore: jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute * 5)),
			Issuer:    "simple-ads",
			Subject:   "simple-ads",
			ID:        uuid.New().String(),
			Audience:  []string{"public"},
		},
	}
	accessToken, err := j.CreateTokenStr(claims)
	return AuthToken{Token: accessToken, Expiry: claims.ExpiresAt.Time}, err
}

func (j Jwt) CreateRefreshToken(claimData interface{}) (AuthToken, error) {
	claims := Claims{
		claimData,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			NotBefore: jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute * 5)),
			Issuer:    "simple-ads",
			Subject:   "simple-ads",
			ID:        uuid.New().String(),
			Audience:  []string{"public"},
		},
	}
	refreshToken, err := j.CreateTokenStr(claims)
	return AuthToken{Token: refreshToken, Expiry: claims.ExpiresAt.Time}, err
}

// CreateLogoutToken returns an already-expired token for clearing cookies.
func (j Jwt) CreateLogoutToken(claimData interface{}) (AuthToken, error) {
	claims := Claims{
		claimData,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			NotBefore: jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute * 5)),
			Issuer:    "simple-ads",
			Subject:   "simple-ads",
			ID:        uuid.New().String(),
			Audience:  []string{"public"},
		},
	}
	logoutToken, err := j.CreateTokenStr(claims)
	return AuthToken{Token: logoutToken, Expiry: claims.ExpiresAt.Time}, err
}

func (j Jwt) ParseTokenStr(tokenStr string) (*jwt.Token, error) {
	signingKey := []byte(j.Secret)
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil {
		slog.Error("Failed parse JWT string!", "err", err)
		return token, err
	}
	claims := token.Claims.(jwt.MapClaims)
	customClaims := new(Claims)
	err = LoadFromMap(customClaims, claims)
	if err == nil && token.Valid {
		return token, nil
	}
	slog.Error("Failed parse token claims!", "err", err)
	return token, errors.New("failed_parse_token_claims")
}

func LoadFromMap[T any](c *T, m map[string]interface{}) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}
