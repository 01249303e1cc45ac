package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/core/instructor"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
)

// Lookup fetches a course by id, mapping malformed and unknown ids to
// ErrNotFound.
func Lookup(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, fmt.Errorf("course[%s]: %w", id, ErrNotFound)
	}

	c, err := Fetch(ctx, db, id)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return Course{}, fmt.Errorf("%v: %w", err, ErrNotFound)
		}
		return Course{}, err
	}
	return c, nil
}

// Owns reports whether userID is the user behind the course's instructor.
func Owns(ctx context.Context, db sqlx.ExtContext, userID string, c Course) (bool, error) {
	if userID == "" {
		return false, nil
	}

	ins, err := instructor.Fetch(ctx, db, c.InstructorID)
	if err != nil {
		return false, err
	}
	return ins.UserID == userID, nil
}

// Authorize returns the course when clm may manage it: administrators and
// the owning instructor. Anyone else gets ErrForbidden.
func Authorize(ctx context.Context, db sqlx.ExtContext, clm claims.Claims, courseID string) (Course, error) {
	c, err := Lookup(ctx, db, courseID)
	if err != nil {
		return Course{}, err
	}
	if clm.Admin() {
		return c, nil
	}

	ok, err := Owns(ctx, db, clm.UserID, c)
	if err != nil {
		return Course{}, err
	}
	if !ok {
		return Course{}, fmt.Errorf("user[%s] on course[%s]: %w", clm.UserID, c.ID, ErrForbidden)
	}
	return c, nil
}
