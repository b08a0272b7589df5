package auth

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNoToken is returned when the context carries no authenticated staff token
var ErrNoToken = goerr.New("no auth token in context")

// Token is the verified identity of a signed-in staff member
type Token struct {
	Sub       string // staff ID
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the token has expired
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

type ctxTokenKey struct{}

// ContextWithToken stores the token in the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext retrieves the token from the context
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	return token, nil
}
