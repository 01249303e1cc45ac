package user

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

const selectUser = `
	SELECT user_id, name, email, role, password_hash, created_at, updated_at
	FROM users`

func Create(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `
	INSERT INTO users
		(user_id, name, email, role, password_hash, created_at, updated_at)
	VALUES
		(:user_id, :name, :email, :role, :password_hash, :created_at, :updated_at)`

	if err := database.NamedExecContext(ctx, db, q, u); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	in := struct {
		ID string `db:"user_id"`
	}{id}

	var u User
	if err := database.NamedQueryStruct(ctx, db, selectUser+` WHERE user_id = :user_id`, in, &u); err != nil {
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}
	return u, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	in := struct {
		Email string `db:"email"`
	}{email}

	var u User
	if err := database.NamedQueryStruct(ctx, db, selectUser+` WHERE email = :email`, in, &u); err != nil {
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}
	return u, nil
}

// Promote overwrites the user's role and password.
func Promote(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `
	UPDATE users SET
		role = :role,
		password_hash = :password_hash,
		updated_at = :updated_at
	WHERE user_id = :user_id`

	if err := database.NamedExecAffected(ctx, db, q, u); err != nil {
		return fmt.Errorf("updating user[%s]: %w", u.ID, err)
	}
	return nil
}
