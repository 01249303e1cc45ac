package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes pass with bcrypt's default cost.
func HashPassword(pass string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

// EnsureAdmin makes sure an administrator with email exists and logs in with
// pass, creating the account or promoting an existing one.
func EnsureAdmin(ctx context.Context, db sqlx.ExtContext, email, pass string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if pass == "" {
		return errors.New("admin password is required")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	u, err := FetchByEmail(ctx, db, email)
	switch {
	case errors.Is(err, database.ErrDBNotFound):
		u = User{
			ID:           validate.GenerateID(),
			Name:         "Administrator",
			Email:        email,
			Role:         claims.RoleAdmin,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return Create(ctx, db, u)
	case err != nil:
		return err
	}

	u.Role = claims.RoleAdmin
	u.PasswordHash = hash
	u.UpdatedAt = now
	return Promote(ctx, db, u)
}
