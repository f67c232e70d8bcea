// Package auth resolves the caller identity from a session token and serves
// the register, login and logout endpoints.
package auth

import (
	"context"

	"newsboard/internal/domain/entity"
)

// Identity is the authenticated caller carried in a request context.
type Identity = entity.Identity

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// CurrentIdentity returns the identity in ctx, or entity.Anonymous.
func CurrentIdentity(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id
	}
	return entity.Anonymous
}
