package section

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, s Section) error {
	const q = `
	INSERT INTO sections
		(section_id, course_id, title, description, "order")
	VALUES
		(:section_id, :course_id, :title, :description, :order)`

	if err := database.NamedExecContext(ctx, db, q, s); err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Section, error) {
	in := struct {
		ID string `db:"section_id"`
	}{id}

	const q = `
	SELECT section_id, course_id, title, description, "order"
	FROM sections
	WHERE section_id = :section_id`

	var s Section
	if err := database.NamedQueryStruct(ctx, db, q, in, &s); err != nil {
		return Section{}, fmt.Errorf("selecting section[%s]: %w", id, err)
	}
	return s, nil
}

func CreateLesson(ctx context.Context, db sqlx.ExtContext, l Lesson) error {
	const q = `
	INSERT INTO lessons
		(lesson_id, section_id, title, content, video_url, duration_minutes, "order", is_preview, resources)
	VALUES
		(:lesson_id, :section_id, :title, :content, :video_url, :duration_minutes, :order, :is_preview, :resources)`

	if err := database.NamedExecContext(ctx, db, q, l); err != nil {
		return fmt.Errorf("inserting lesson: %w", err)
	}
	return nil
}

// FetchLesson returns the lesson along with the course it belongs to.
func FetchLesson(ctx context.Context, db sqlx.ExtContext, id string) (Lesson, error) {
	in := struct {
		ID string `db:"lesson_id"`
	}{id}

	const q = `
	SELECT
		l.lesson_id, l.section_id, s.course_id, l.title, l.content, l.video_url,
		l.duration_minutes, l."order", l.is_preview, l.resources
	FROM lessons l
	JOIN sections s ON s.section_id = l.section_id
	WHERE l.lesson_id = :lesson_id`

	var l Lesson
	if err := database.NamedQueryStruct(ctx, db, q, in, &l); err != nil {
		return Lesson{}, fmt.Errorf("selecting lesson[%s]: %w", id, err)
	}
	return l, nil
}

// CountLessons is the number of lessons across every section of the course.
func CountLessons(ctx context.Context, db sqlx.ExtContext, courseID string) (int, error) {
	const q = `
	SELECT COUNT(*)
	FROM lessons l
	JOIN sections s ON s.section_id = l.section_id
	WHERE s.course_id = $1`

	var n int
	if err := sqlx.GetContext(ctx, db, &n, q, courseID); err != nil {
		return 0, fmt.Errorf("counting lessons of course[%s]: %w", courseID, err)
	}
	return n, nil
}
