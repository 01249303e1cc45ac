// Package auth logs users in and out and turns the session cookie into the
// caller's claims.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/core/claims"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

// Identify puts the logged in user's claims in the context. Requests without
// a session go through unchanged and count as anonymous.
func Identify(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if id := sm.GetString(ctx, userIDKey); id != "" {
				ctx = claims.Set(ctx, claims.Claims{UserID: id, Role: sm.GetString(ctx, roleKey)})
				r = r.WithContext(ctx)
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if _, err := claims.Get(ctx); err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func Admin() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, err := claims.Get(ctx)
			if err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			if !clm.Admin() {
				return weberr.Forbidden(errors.New("user is not an administrator"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func login(ctx context.Context, sm *scs.SessionManager, clm claims.Claims) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, userIDKey, clm.UserID)
	sm.Put(ctx, roleKey, clm.Role)
	return nil
}
