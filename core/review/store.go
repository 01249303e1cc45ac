package review

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/core/course"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, r Review) error {
	const q = `
	INSERT INTO course_reviews
		(review_id, course_id, student_id, rating, title, comment, created_at, updated_at)
	VALUES
		(:review_id, :course_id, :student_id, :rating, :title, :comment, :created_at, :updated_at)`

	if err := database.NamedExecContext(ctx, db, q, r); err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

// List returns the reviews of a course, newest first.
func List(ctx context.Context, db sqlx.ExtContext, courseID string) ([]course.ReviewView, error) {
	return course.FetchReviews(ctx, db, courseID)
}
