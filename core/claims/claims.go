// Package claims carries the identity of the caller. Services receive a
// Claims value explicitly; the context is only used to move it from the
// authentication middleware to the handler.
package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type Claims struct {
	UserID string
	Role   string
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Claims{}

func (c Claims) Authenticated() bool { return c.UserID != "" }

func (c Claims) Admin() bool { return c.Authenticated() && c.Role == RoleAdmin }

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

// FromContext returns the caller, or Anonymous when nobody is logged in.
func FromContext(ctx context.Context) Claims {
	c, err := Get(ctx)
	if err != nil {
		return Anonymous
	}
	return c
}

func IsAdmin(ctx context.Context) bool {
	return FromContext(ctx).Admin()
}

func IsUser(ctx context.Context, id string) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.UserID == id
}
