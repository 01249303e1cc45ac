package section

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/core/course"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("lesson not found")

// Lookup fetches a lesson. Malformed ids, unknown lessons and lessons of
// archived courses are all ErrNotFound.
func Lookup(ctx context.Context, db sqlx.ExtContext, id string) (Lesson, course.Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Lesson{}, course.Course{}, fmt.Errorf("lesson[%s]: %w", id, ErrNotFound)
	}

	l, err := FetchLesson(ctx, db, id)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return Lesson{}, course.Course{}, fmt.Errorf("%v: %w", err, ErrNotFound)
		}
		return Lesson{}, course.Course{}, err
	}

	c, err := course.Fetch(ctx, db, l.CourseID)
	if err != nil {
		return Lesson{}, course.Course{}, err
	}
	if c.Status == course.StatusArchived {
		return Lesson{}, course.Course{}, fmt.Errorf("course[%s] of lesson[%s] is archived: %w", c.ID, id, ErrNotFound)
	}
	return l, c, nil
}

// CanWatch reports whether clm may see the full lesson: administrators, the
// owning instructor and students enrolled in the course.
func CanWatch(ctx context.Context, db sqlx.ExtContext, clm claims.Claims, c course.Course) (bool, error) {
	if !clm.Authenticated() {
		return false, nil
	}
	if clm.Admin() {
		return true, nil
	}

	owns, err := course.Owns(ctx, db, clm.UserID, c)
	if err != nil || owns {
		return owns, err
	}
	return course.IsEnrolled(ctx, db, c.ID, clm.UserID)
}
