package review

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/core/course"
	"github.com/irsalhamdi/course-catalog/core/instructor"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// HandleCreate stores the caller's review and refreshes the rating of the
// course's instructor in the same transaction.
func HandleCreate(db *sqlx.DB, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		c, err := visible(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		enrolled, err := course.IsEnrolled(ctx, db, c.ID, clm.UserID)
		if err != nil {
			return err
		}
		if !enrolled {
			return weberr.Forbidden(fmt.Errorf("user[%s] is not enrolled in course[%s]", clm.UserID, c.ID))
		}

		var rn ReviewNew
		if err := web.Decode(w, r, &rn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(rn); err != nil {
			fe, _ := validate.AsFieldErrors(err)
			return weberr.Validation(err, fe)
		}

		now := time.Now().UTC()
		rv := Review{
			ID:        validate.GenerateID(),
			CourseID:  c.ID,
			StudentID: clm.UserID,
			Rating:    rn.Rating,
			Title:     rn.Title,
			Comment:   rn.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			if err := Create(ctx, tx, rv); err != nil {
				return err
			}

			total, count, err := instructor.RatingInputs(ctx, tx, c.InstructorID)
			if err != nil {
				return err
			}
			return instructor.SetRating(ctx, tx, c.InstructorID, instructor.Rating(total, count))
		})
		if err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(fmt.Errorf("user[%s] already reviewed course[%s]: %w", clm.UserID, c.ID, err))
			}
			return err
		}

		log.WithFields(logrus.Fields{"course_id": c.ID, "rating": rv.Rating}).Info("course reviewed")
		return web.Respond(ctx, w, rv, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := visible(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		rs, err := List(ctx, db, c.ID)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, rs, http.StatusOK)
	}
}

// visible looks the course up, hiding archived ones.
func visible(ctx context.Context, db sqlx.ExtContext, id string) (course.Course, error) {
	c, err := course.Lookup(ctx, db, id)
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return course.Course{}, weberr.NotFound(err)
		}
		return course.Course{}, err
	}
	if c.Status == course.StatusArchived {
		return course.Course{}, weberr.NotFound(fmt.Errorf("course[%s] is archived: %w", c.ID, course.ErrNotFound))
	}
	return c, nil
}
