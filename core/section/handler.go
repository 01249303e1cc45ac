package section

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/core/course"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
)

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := course.Authorize(ctx, db, claims.FromContext(ctx), web.Param(r, "id"))
		if err != nil {
			return webError(err)
		}

		var sn SectionNew
		if err := web.Decode(w, r, &sn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(sn); err != nil {
			return webError(err)
		}

		s := Section{
			ID:          validate.GenerateID(),
			CourseID:    c.ID,
			Title:       sn.Title,
			Description: sn.Description,
			Order:       sn.Order,
		}
		if err := Create(ctx, db, s); err != nil {
			return err
		}

		return web.Respond(ctx, w, s, http.StatusCreated)
	}
}

func HandleCreateLesson(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("section[%s]: %w", id, err))
		}

		s, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if _, err := course.Authorize(ctx, db, claims.FromContext(ctx), s.CourseID); err != nil {
			return webError(err)
		}

		var ln LessonNew
		if err := web.Decode(w, r, &ln); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(ln); err != nil {
			return webError(err)
		}

		l := Lesson{
			ID:              validate.GenerateID(),
			SectionID:       s.ID,
			CourseID:        s.CourseID,
			Title:           ln.Title,
			Content:         ln.Content,
			VideoURL:        ln.VideoURL,
			DurationMinutes: ln.DurationMinutes,
			Order:           ln.Order,
			IsPreview:       ln.IsPreview,
			Resources:       ln.Resources,
		}
		if err := CreateLesson(ctx, db, l); err != nil {
			return err
		}

		return web.Respond(ctx, w, l, http.StatusCreated)
	}
}

// HandleShowPreview serves preview lessons to anyone, logged in or not.
func HandleShowPreview(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		l, _, err := Lookup(ctx, db, web.Param(r, "id"))
		if err != nil {
			return webError(err)
		}
		if !l.IsPreview {
			return weberr.NotFound(fmt.Errorf("lesson[%s] is not a preview: %w", l.ID, ErrNotFound))
		}

		return web.Respond(ctx, w, l, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		l, c, err := Lookup(ctx, db, web.Param(r, "id"))
		if err != nil {
			return webError(err)
		}

		if !l.IsPreview {
			clm := claims.FromContext(ctx)
			ok, err := CanWatch(ctx, db, clm, c)
			if err != nil {
				return err
			}
			if !ok {
				return weberr.Forbidden(fmt.Errorf("user[%s] is not enrolled in course[%s]", clm.UserID, c.ID))
			}
		}

		return web.Respond(ctx, w, l, http.StatusOK)
	}
}

func webError(err error) error {
	if fe, ok := validate.AsFieldErrors(err); ok {
		return weberr.Validation(err, fe)
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, course.ErrNotFound):
		return weberr.NotFound(err)
	case errors.Is(err, course.ErrForbidden):
		return weberr.Forbidden(err)
	}
	return err
}
