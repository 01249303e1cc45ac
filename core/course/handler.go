package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/slug"
	"github.com/irsalhamdi/course-catalog/validate"
)

func HandleList(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := svc.List(ctx)
		if err != nil {
			return fmt.Errorf("listing courses: %w", err)
		}
		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleCreate(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nc CourseNew
		if err := web.Decode(w, r, &nc); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		c, err := svc.Create(ctx, claims.FromContext(ctx), nc)
		if err != nil {
			return toWebError(err)
		}
		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleShow(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		c, err := svc.Retrieve(ctx, claims.FromContext(ctx), id)
		if err != nil {
			return toWebError(err, courseField(id))
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// HandleUpdate serves PUT (full replacement) and PATCH (partial update).
func HandleUpdate(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var up CourseUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		id := web.Param(r, "id")
		full := r.Method == http.MethodPut
		c, err := svc.Update(ctx, claims.FromContext(ctx), id, up, full)
		if err != nil {
			return toWebError(err, courseField(id))
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := svc.Delete(ctx, claims.FromContext(ctx), id); err != nil {
			return toWebError(err, courseField(id))
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleTransition(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var su StatusUp
		if err := web.Decode(w, r, &su); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		id := web.Param(r, "id")
		c, err := svc.Transition(ctx, claims.FromContext(ctx), id, su)
		if err != nil {
			return toWebError(err, courseField(id))
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// courseField tags the error log line with the course the request was about.
func courseField(id string) weberr.Opt {
	return weberr.WithField("course_id", id)
}

func toWebError(err error, opts ...weberr.Opt) error {
	if fe, ok := validate.AsFieldErrors(err); ok {
		return weberr.Validation(err, fe, opts...)
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return weberr.NotFound(err, opts...)
	case errors.Is(err, ErrForbidden):
		return weberr.Forbidden(err, opts...)
	case errors.Is(err, database.ErrDBDuplicatedEntry), errors.Is(err, slug.ErrExhausted):
		return weberr.Conflict(err, opts...)
	}
	return err
}
