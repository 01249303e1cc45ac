package enrollment

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
	"github.com/irsalhamdi/course-catalog/core/section"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var ErrNotOpen = errors.New("course is not open for enrollment")

// HandleEnroll enrolls the caller in a published course and counts them
// among the instructor's students.
func HandleEnroll(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		c, err := course.Lookup(ctx, db, web.Param(r, "id"))
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}
		switch c.Status {
		case course.StatusArchived:
			return weberr.NotFound(fmt.Errorf("course[%s] is archived: %w", c.ID, course.ErrNotFound))
		case course.StatusDraft:
			return weberr.BadRequest(fmt.Errorf("course[%s]: %w", c.ID, ErrNotOpen))
		}

		e := Enrollment{
			ID:         validate.GenerateID(),
			StudentID:  clm.UserID,
			CourseID:   c.ID,
			Status:     StatusActive,
			EnrolledAt: time.Now().UTC(),
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			if err := Create(ctx, tx, e); err != nil {
				return err
			}
			return instructor.AddStudents(ctx, tx, c.InstructorID, 1)
		})
		if err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(fmt.Errorf("user[%s] already enrolled in course[%s]: %w", clm.UserID, c.ID, err))
			}
			return err
		}

		return web.Respond(ctx, w, e, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ss, err := ListByStudent(ctx, db, clm.UserID)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, ss, http.StatusOK)
	}
}

// HandleProgress records the caller's progress on a lesson and recomputes
// the enrollment. Completing the last lesson completes the enrollment and
// issues its certificate.
func HandleProgress(db *sqlx.DB, log logrus.FieldLogger, certificateBaseURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		l, _, err := section.Lookup(ctx, db, web.Param(r, "id"))
		if err != nil {
			if errors.Is(err, section.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		var up ProgressUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(up); err != nil {
			fe, _ := validate.AsFieldErrors(err)
			return weberr.Validation(err, fe)
		}

		e, err := FetchByStudent(ctx, db, clm.UserID, l.CourseID)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.Forbidden(fmt.Errorf("user[%s] is not enrolled in course[%s]", clm.UserID, l.CourseID))
			}
			return err
		}
		if e.Status == StatusDropped {
			return weberr.Forbidden(fmt.Errorf("enrollment[%s] was dropped", e.ID))
		}

		now := time.Now().UTC()
		var view ProgressView
		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			lp, err := record(ctx, tx, e.ID, l.ID, up, now)
			if err != nil {
				return err
			}

			done, err := CountCompleted(ctx, tx, e.ID)
			if err != nil {
				return err
			}
			total, err := section.CountLessons(ctx, tx, l.CourseID)
			if err != nil {
				return err
			}

			if Advance(&e, Percentage(done, total), now) {
				log.WithFields(logrus.Fields{"enrollment_id": e.ID, "user_id": clm.UserID}).Info("enrollment completed")
			}
			if err := UpdateProgress(ctx, tx, e); err != nil {
				return err
			}

			view = ProgressView{Lesson: lp, Enrollment: e}
			return nil
		})
		if err != nil {
			return fmt.Errorf("recording progress of lesson[%s]: %w", l.ID, err)
		}

		if e.Status == StatusCompleted {
			cert, err := Issue(ctx, db, e, certificateBaseURL, now)
			if err != nil {
				return fmt.Errorf("issuing certificate for enrollment[%s]: %w", e.ID, err)
			}
			view.Certificate = &cert
		}

		return web.Respond(ctx, w, view, http.StatusOK)
	}
}

// record upserts the lesson progress. A lesson keeps the time it was first
// completed.
func record(ctx context.Context, db sqlx.ExtContext, enrollmentID, lessonID string, up ProgressUp, now time.Time) (LessonProgress, error) {
	lp, err := FetchLessonProgress(ctx, db, enrollmentID, lessonID)
	if err != nil && !errors.Is(err, database.ErrDBNotFound) {
		return LessonProgress{}, err
	}

	lp.EnrollmentID = enrollmentID
	lp.LessonID = lessonID
	lp.WatchTimeMinutes = up.WatchTimeMinutes

	switch {
	case !up.IsCompleted:
		lp.CompletedAt = nil
	case lp.CompletedAt == nil:
		lp.CompletedAt = &now
	}
	lp.IsCompleted = up.IsCompleted

	if err := SaveLessonProgress(ctx, db, lp); err != nil {
		return LessonProgress{}, err
	}
	return lp, nil
}

func HandleCertificate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("enrollment[%s]: %w", id, err))
		}

		e, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}
		if e.StudentID != clm.UserID && !clm.Admin() {
			return weberr.Forbidden(fmt.Errorf("user[%s] on enrollment[%s]", clm.UserID, id))
		}

		cert, err := FetchCertificate(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}
		return web.Respond(ctx, w, cert, http.StatusOK)
	}
}
