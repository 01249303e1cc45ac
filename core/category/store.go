package category

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

const selectCategory = `
	SELECT
		c.category_id, c.name, c.slug, c.description, c.icon, c.parent_id, c.is_active,
		(SELECT COUNT(*) FROM categories s WHERE s.parent_id = c.category_id) AS sub_count
	FROM categories c`

func Create(ctx context.Context, db sqlx.ExtContext, c Category) error {
	const q = `
	INSERT INTO categories
		(category_id, name, slug, description, icon, parent_id, is_active)
	VALUES
		(:category_id, :name, :slug, :description, :icon, :parent_id, :is_active)`

	if err := database.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Category) error {
	const q = `
	UPDATE categories SET
		name = :name,
		slug = :slug,
		description = :description,
		icon = :icon,
		parent_id = :parent_id,
		is_active = :is_active
	WHERE category_id = :category_id`

	if err := database.NamedExecAffected(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating category[%s]: %w", c.ID, err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Category, error) {
	in := struct {
		ID string `db:"category_id"`
	}{id}

	var c Category
	q := selectCategory + ` WHERE c.category_id = :category_id`
	if err := database.NamedQueryStruct(ctx, db, q, in, &c); err != nil {
		return Category{}, fmt.Errorf("selecting category[%s]: %w", id, err)
	}
	return c, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Category, error) {
	cs := make([]Category, 0)
	q := selectCategory + ` ORDER BY c.name`
	if err := sqlx.SelectContext(ctx, db, &cs, q); err != nil {
		return nil, fmt.Errorf("selecting categories: %w", err)
	}
	return cs, nil
}

func SlugExists(ctx context.Context, db sqlx.ExtContext, slug string, excludeID string) (bool, error) {
	in := struct {
		Slug      string `db:"slug"`
		ExcludeID string `db:"exclude_id"`
	}{slug, excludeID}

	const q = `
	SELECT EXISTS (
		SELECT 1 FROM categories WHERE slug = :slug AND CAST(category_id AS TEXT) <> :exclude_id
	)`

	var exists bool
	if err := database.NamedQueryScalar(ctx, db, q, in, &exists); err != nil {
		return false, fmt.Errorf("checking category slug: %w", err)
	}
	return exists, nil
}

// Ancestors returns id followed by every category above it.
func Ancestors(ctx context.Context, db sqlx.ExtContext, id string) ([]string, error) {
	const q = `
	WITH RECURSIVE chain AS (
		SELECT category_id, parent_id FROM categories WHERE category_id = $1
		UNION
		SELECT c.category_id, c.parent_id FROM categories c JOIN chain ON c.category_id = chain.parent_id
	)
	SELECT category_id FROM chain`

	ids := make([]string, 0)
	if err := sqlx.SelectContext(ctx, db, &ids, q, id); err != nil {
		return nil, fmt.Errorf("walking ancestors of category[%s]: %w", id, err)
	}
	return ids, nil
}
