package instructor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// HandleCreate turns the current user into an instructor. New profiles start
// unverified.
func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in InstructorNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			fe, _ := validate.AsFieldErrors(err)
			return weberr.Validation(err, fe)
		}

		ins := Instructor{
			ID:           validate.GenerateID(),
			UserID:       clm.UserID,
			Bio:          in.Bio,
			ProfileImage: in.ProfileImage,
			Expertise:    in.Expertise,
			Rating:       decimal.Zero,
			CreatedAt:    time.Now().UTC(),
		}

		if err := Create(ctx, db, ins); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(fmt.Errorf("user[%s] already has an instructor profile: %w", clm.UserID, err))
			}
			return err
		}

		return web.Respond(ctx, w, ins, http.StatusCreated)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("instructor[%s]: %w", id, err))
		}

		ins, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, ins, http.StatusOK)
	}
}

func HandleVerify(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("instructor[%s]: %w", id, err))
		}

		var up VerificationUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := SetVerified(ctx, db, id, up.IsVerified); err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		ins, err := Fetch(ctx, db, id)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, ins, http.StatusOK)
	}
}
