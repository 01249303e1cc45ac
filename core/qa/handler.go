package qa

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
	"github.com/irsalhamdi/course-catalog/core/section"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
)

// Questions and answers are open to whoever may watch the lesson.

func HandleListQuestions(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		l, _, err := lesson(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		qs, err := ListQuestions(ctx, db, l.ID)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, qs, http.StatusOK)
	}
}

func HandleAsk(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		l, _, err := lesson(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		var qn QuestionNew
		if err := web.Decode(w, r, &qn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(qn); err != nil {
			fe, _ := validate.AsFieldErrors(err)
			return weberr.Validation(err, fe)
		}

		q := Question{
			ID:        validate.GenerateID(),
			LessonID:  l.ID,
			StudentID: claims.FromContext(ctx).UserID,
			Title:     qn.Title,
			Content:   qn.Content,
			CreatedAt: time.Now().UTC(),
			Answers:   []Answer{},
		}
		if err := CreateQuestion(ctx, db, q); err != nil {
			return err
		}

		return web.Respond(ctx, w, q, http.StatusCreated)
	}
}

// HandleAnswer flags answers written by the course's own instructor.
func HandleAnswer(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("question[%s]: %w", id, err))
		}

		q, err := FetchQuestion(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		l, c, err := lesson(ctx, db, q.LessonID)
		if err != nil {
			return err
		}

		var an AnswerNew
		if err := web.Decode(w, r, &an); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(an); err != nil {
			fe, _ := validate.AsFieldErrors(err)
			return weberr.Validation(err, fe)
		}

		clm := claims.FromContext(ctx)
		owns, err := course.Owns(ctx, db, clm.UserID, c)
		if err != nil {
			return err
		}

		a := Answer{
			ID:                 validate.GenerateID(),
			QuestionID:         q.ID,
			UserID:             clm.UserID,
			Content:            an.Content,
			IsInstructorAnswer: owns,
			CreatedAt:          time.Now().UTC(),
		}
		if err := CreateAnswer(ctx, db, a); err != nil {
			return fmt.Errorf("answering question[%s] on lesson[%s]: %w", q.ID, l.ID, err)
		}

		return web.Respond(ctx, w, a, http.StatusCreated)
	}
}

// lesson resolves the lesson and checks the caller may take part in its
// discussion.
func lesson(ctx context.Context, db sqlx.ExtContext, id string) (section.Lesson, course.Course, error) {
	l, c, err := section.Lookup(ctx, db, id)
	if err != nil {
		if errors.Is(err, section.ErrNotFound) {
			return section.Lesson{}, course.Course{}, weberr.NotFound(err)
		}
		return section.Lesson{}, course.Course{}, err
	}

	clm := claims.FromContext(ctx)
	ok, err := section.CanWatch(ctx, db, clm, c)
	if err != nil {
		return section.Lesson{}, course.Course{}, err
	}
	if !ok {
		return section.Lesson{}, course.Course{}, weberr.Forbidden(fmt.Errorf("user[%s] may not discuss lesson[%s]", clm.UserID, id))
	}
	return l, c, nil
}
