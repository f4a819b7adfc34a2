package login

import (
	"context"
	"encoding/json"
)

func contextWithAuthUser(ctx context.Context, authUser *AuthUser) context.Context {
	return context.WithValue(ctx, AuthUserKey, authUser)
}

// AuthUserFromContext returns the AuthUser placed by AuthUserMiddleware.
func AuthUserFromContext(ctx context.Context) (*AuthUser, bool) {
	authUser, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return authUser, ok
}

func LoadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}
