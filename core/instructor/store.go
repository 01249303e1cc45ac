package instructor

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const selectInstructor = `
	SELECT
		i.instructor_id, i.user_id, i.bio, i.profile_image, i.expertise,
		i.total_students, i.rating, i.is_verified, i.created_at,
		(SELECT COUNT(*) FROM courses c WHERE c.instructor_id = i.instructor_id) AS courses_count
	FROM instructors i`

func Create(ctx context.Context, db sqlx.ExtContext, ins Instructor) error {
	const q = `
	INSERT INTO instructors
		(instructor_id, user_id, bio, profile_image, expertise, total_students, rating, is_verified, created_at)
	VALUES
		(:instructor_id, :user_id, :bio, :profile_image, :expertise, :total_students, :rating, :is_verified, :created_at)`

	if err := database.NamedExecContext(ctx, db, q, ins); err != nil {
		return fmt.Errorf("inserting instructor: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Instructor, error) {
	in := struct {
		ID string `db:"instructor_id"`
	}{id}

	var ins Instructor
	q := selectInstructor + ` WHERE i.instructor_id = :instructor_id`
	if err := database.NamedQueryStruct(ctx, db, q, in, &ins); err != nil {
		return Instructor{}, fmt.Errorf("selecting instructor[%s]: %w", id, err)
	}
	return ins, nil
}

func FetchByUser(ctx context.Context, db sqlx.ExtContext, userID string) (Instructor, error) {
	in := struct {
		UserID string `db:"user_id"`
	}{userID}

	var ins Instructor
	q := selectInstructor + ` WHERE i.user_id = :user_id`
	if err := database.NamedQueryStruct(ctx, db, q, in, &ins); err != nil {
		return Instructor{}, fmt.Errorf("selecting instructor of user[%s]: %w", userID, err)
	}
	return ins, nil
}

func SetVerified(ctx context.Context, db sqlx.ExtContext, id string, verified bool) error {
	in := struct {
		ID       string `db:"instructor_id"`
		Verified bool   `db:"is_verified"`
	}{id, verified}

	const q = `UPDATE instructors SET is_verified = :is_verified WHERE instructor_id = :instructor_id`
	if err := database.NamedExecAffected(ctx, db, q, in); err != nil {
		return fmt.Errorf("verifying instructor[%s]: %w", id, err)
	}
	return nil
}

// AddStudents adjusts the total_students counter by delta.
func AddStudents(ctx context.Context, db sqlx.ExtContext, id string, delta int) error {
	in := struct {
		ID    string `db:"instructor_id"`
		Delta int    `db:"delta"`
	}{id, delta}

	const q = `
	UPDATE instructors SET total_students = GREATEST(total_students + :delta, 0)
	WHERE instructor_id = :instructor_id`
	if err := database.NamedExecAffected(ctx, db, q, in); err != nil {
		return fmt.Errorf("updating students of instructor[%s]: %w", id, err)
	}
	return nil
}

// RatingInputs returns the sum and count of every review left on the
// instructor's courses.
func RatingInputs(ctx context.Context, db sqlx.ExtContext, id string) (total int, count int, err error) {
	const q = `
	SELECT COALESCE(SUM(r.rating), 0) AS total, COUNT(r.review_id) AS count
	FROM course_reviews r
	JOIN courses c ON c.course_id = r.course_id
	WHERE c.instructor_id = $1`

	var row struct {
		Total int `db:"total"`
		Count int `db:"count"`
	}
	if err := sqlx.GetContext(ctx, db, &row, q, id); err != nil {
		return 0, 0, fmt.Errorf("aggregating reviews of instructor[%s]: %w", id, err)
	}
	return row.Total, row.Count, nil
}

func SetRating(ctx context.Context, db sqlx.ExtContext, id string, rating decimal.Decimal) error {
	in := struct {
		ID     string          `db:"instructor_id"`
		Rating decimal.Decimal `db:"rating"`
	}{id, rating}

	const q = `UPDATE instructors SET rating = :rating WHERE instructor_id = :instructor_id`
	if err := database.NamedExecAffected(ctx, db, q, in); err != nil {
		return fmt.Errorf("rating instructor[%s]: %w", id, err)
	}
	return nil
}

// Rating is the mean review score rounded to two places, clamped to [0, 5].
func Rating(total, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	r := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(count))).Round(2)
	five := decimal.NewFromInt(5)
	if r.GreaterThan(five) {
		return five
	}
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
