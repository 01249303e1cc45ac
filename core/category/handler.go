package category

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/slug"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cs, err := List(ctx, db)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, cs, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("category[%s]: %w", id, err))
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cn CategoryNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		fe := validate.Collect(cn)
		if cn.ParentID != nil {
			if err := checkParent(ctx, db, "", *cn.ParentID, fe); err != nil {
				return err
			}
		}
		if err := fe.Err(); err != nil {
			return weberr.Validation(err, fe)
		}

		sl, err := uniqueSlug(ctx, db, cn.Name, "")
		if err != nil {
			return err
		}

		c := Category{
			ID:          validate.GenerateID(),
			Name:        cn.Name,
			Slug:        sl,
			Description: cn.Description,
			Icon:        cn.Icon,
			ParentID:    cn.ParentID,
			IsActive:    true,
		}
		if cn.IsActive != nil {
			c.IsActive = *cn.IsActive
		}

		if err := Create(ctx, db, c); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(err)
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(fmt.Errorf("category[%s]: %w", id, err))
		}

		var cu CategoryUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		fe := validate.Collect(cu)
		if cu.Parent.ID != nil {
			if err := validate.CheckID(*cu.Parent.ID); err != nil {
				fe.Add("parent", "parent must be a valid UUID")
			}
			if err := checkParent(ctx, db, c.ID, *cu.Parent.ID, fe); err != nil {
				return err
			}
		}
		if err := fe.Err(); err != nil {
			return weberr.Validation(err, fe)
		}

		if cu.Name != nil && *cu.Name != c.Name {
			c.Name = *cu.Name
			if c.Slug, err = uniqueSlug(ctx, db, c.Name, c.ID); err != nil {
				return err
			}
		}
		c = cu.apply(c)

		if err := Update(ctx, db, c); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(err)
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// checkParent records a field error when parentID is unknown or would make
// the tree cyclic. id is empty for categories that do not exist yet.
func checkParent(ctx context.Context, db sqlx.ExtContext, id string, parentID string, fe validate.FieldErrors) error {
	if _, bad := fe["parent"]; bad {
		return nil
	}

	chain, err := Ancestors(ctx, db, parentID)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		fe.Add("parent", "parent category does not exist")
		return nil
	}
	if id != "" && createsCycle(id, parentID, chain) {
		fe.Add("parent", "a category cannot be placed under itself or one of its subcategories")
	}
	return nil
}

func uniqueSlug(ctx context.Context, db sqlx.ExtContext, name string, excludeID string) (string, error) {
	sl, err := slug.Unique(ctx, slug.Make(name), slug.DefaultMaxAttempts, func(ctx context.Context, s string) (bool, error) {
		return SlugExists(ctx, db, s, excludeID)
	})
	if errors.Is(err, slug.ErrExhausted) {
		return "", weberr.Conflict(err)
	}
	return sl, err
}
