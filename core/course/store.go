package course

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

// Row is a course together with the aggregates of its related records.
type Row struct {
	Course
	Stats
}

const courseColumns = `
	c.course_id, c.title, c.slug, c.description, c.instructor_id, c.category_id,
	c.thumbnail, c.trailer_url, c.price, c.discount_percentage, c.level, c.status,
	c.duration_hours, c.requirements, c.what_you_learn, c.language, c.is_featured,
	c.created_at, c.updated_at`

const statsColumns = `
	(SELECT COUNT(*) FROM lessons l JOIN sections s ON s.section_id = l.section_id
		WHERE s.course_id = c.course_id) AS total_lessons,
	(SELECT COALESCE(SUM(l.duration_minutes), 0) FROM lessons l JOIN sections s ON s.section_id = l.section_id
		WHERE s.course_id = c.course_id) AS total_duration,
	(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.course_id) AS students_count,
	(SELECT COUNT(*) FROM course_reviews r WHERE r.course_id = c.course_id) AS reviews_count,
	(SELECT COALESCE(SUM(r.rating), 0) FROM course_reviews r WHERE r.course_id = c.course_id) AS rating_total`

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	INSERT INTO courses
		(course_id, title, slug, description, instructor_id, category_id, thumbnail, trailer_url,
		price, discount_percentage, level, status, duration_hours, requirements, what_you_learn,
		language, is_featured, created_at, updated_at)
	VALUES
		(:course_id, :title, :slug, :description, :instructor_id, :category_id, :thumbnail, :trailer_url,
		:price, :discount_percentage, :level, :status, :duration_hours, :requirements, :what_you_learn,
		:language, :is_featured, :created_at, :updated_at)`

	if err := database.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	UPDATE courses SET
		title = :title,
		slug = :slug,
		description = :description,
		instructor_id = :instructor_id,
		category_id = :category_id,
		thumbnail = :thumbnail,
		trailer_url = :trailer_url,
		price = :price,
		discount_percentage = :discount_percentage,
		level = :level,
		status = :status,
		duration_hours = :duration_hours,
		requirements = :requirements,
		what_you_learn = :what_you_learn,
		language = :language,
		is_featured = :is_featured,
		updated_at = :updated_at
	WHERE course_id = :course_id`

	if err := database.NamedExecAffected(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating course[%s]: %w", c.ID, err)
	}
	return nil
}

// Delete removes the course; sections, lessons, enrollments, reviews and
// everything below them go with it through ON DELETE CASCADE.
func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	in := struct {
		ID string `db:"course_id"`
	}{id}

	const q = `DELETE FROM courses WHERE course_id = :course_id`
	if err := database.NamedExecAffected(ctx, db, q, in); err != nil {
		return fmt.Errorf("deleting course[%s]: %w", id, err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	in := struct {
		ID string `db:"course_id"`
	}{id}

	var c Course
	q := `SELECT` + courseColumns + ` FROM courses c WHERE c.course_id = :course_id`
	if err := database.NamedQueryStruct(ctx, db, q, in, &c); err != nil {
		return Course{}, fmt.Errorf("selecting course[%s]: %w", id, err)
	}
	return c, nil
}

// List returns every course, newest first.
func List(ctx context.Context, db sqlx.ExtContext) ([]Row, error) {
	q := `SELECT` + courseColumns + `,` + statsColumns + ` FROM courses c ORDER BY c.created_at DESC`

	rows := make([]Row, 0)
	if err := sqlx.SelectContext(ctx, db, &rows, q); err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}
	return rows, nil
}

func FetchStats(ctx context.Context, db sqlx.ExtContext, id string) (Stats, error) {
	q := `SELECT` + statsColumns + ` FROM courses c WHERE c.course_id = $1`

	var st Stats
	if err := sqlx.GetContext(ctx, db, &st, q, id); err != nil {
		return Stats{}, fmt.Errorf("aggregating course[%s]: %w", id, err)
	}
	return st, nil
}

// SlugExists reports whether another course than excludeID uses slug.
func SlugExists(ctx context.Context, db sqlx.ExtContext, slug string, excludeID string) (bool, error) {
	in := struct {
		Slug      string `db:"slug"`
		ExcludeID string `db:"exclude_id"`
	}{slug, excludeID}

	const q = `
	SELECT EXISTS (
		SELECT 1 FROM courses WHERE slug = :slug AND CAST(course_id AS TEXT) <> :exclude_id
	)`

	var exists bool
	if err := database.NamedQueryScalar(ctx, db, q, in, &exists); err != nil {
		return false, fmt.Errorf("checking course slug: %w", err)
	}
	return exists, nil
}

// FetchSections returns the curriculum ordered by section then lesson order.
func FetchSections(ctx context.Context, db sqlx.ExtContext, courseID string) ([]SectionView, error) {
	const qs = `
	SELECT section_id, title, "order"
	FROM sections
	WHERE course_id = $1
	ORDER BY "order", title`

	sections := make([]SectionView, 0)
	if err := sqlx.SelectContext(ctx, db, &sections, qs, courseID); err != nil {
		return nil, fmt.Errorf("selecting sections of course[%s]: %w", courseID, err)
	}

	const ql = `
	SELECT l.lesson_id, l.section_id, l.title, l.duration_minutes, l.is_preview
	FROM lessons l
	JOIN sections s ON s.section_id = l.section_id
	WHERE s.course_id = $1
	ORDER BY l."order", l.title`

	var lessons []LessonView
	if err := sqlx.SelectContext(ctx, db, &lessons, ql, courseID); err != nil {
		return nil, fmt.Errorf("selecting lessons of course[%s]: %w", courseID, err)
	}

	return groupLessons(sections, lessons), nil
}

func groupLessons(sections []SectionView, lessons []LessonView) []SectionView {
	idx := make(map[string]int, len(sections))
	for i := range sections {
		idx[sections[i].ID] = i
		sections[i].Lessons = make([]LessonView, 0)
	}
	for _, l := range lessons {
		if i, ok := idx[l.SectionID]; ok {
			sections[i].Lessons = append(sections[i].Lessons, l)
		}
	}
	return sections
}

func FetchReviews(ctx context.Context, db sqlx.ExtContext, courseID string) ([]ReviewView, error) {
	const q = `
	SELECT r.review_id, u.name AS user_name, r.rating, r.comment, r.created_at
	FROM course_reviews r
	JOIN users u ON u.user_id = r.student_id
	WHERE r.course_id = $1
	ORDER BY r.created_at DESC`

	reviews := make([]ReviewView, 0)
	if err := sqlx.SelectContext(ctx, db, &reviews, q, courseID); err != nil {
		return nil, fmt.Errorf("selecting reviews of course[%s]: %w", courseID, err)
	}
	return reviews, nil
}

func CountStudents(ctx context.Context, db sqlx.ExtContext, courseID string) (int, error) {
	var n int
	const q = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	if err := sqlx.GetContext(ctx, db, &n, q, courseID); err != nil {
		return 0, fmt.Errorf("counting students of course[%s]: %w", courseID, err)
	}
	return n, nil
}

func IsEnrolled(ctx context.Context, db sqlx.ExtContext, courseID string, userID string) (bool, error) {
	var ok bool
	const q = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`
	if err := sqlx.GetContext(ctx, db, &ok, q, courseID, userID); err != nil {
		return false, fmt.Errorf("checking enrollment of user[%s] in course[%s]: %w", userID, courseID, err)
	}
	return ok, nil
}
