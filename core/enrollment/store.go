package enrollment

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

const selectEnrollment = `
	SELECT enrollment_id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at
	FROM enrollments`

func Create(ctx context.Context, db sqlx.ExtContext, e Enrollment) error {
	const q = `
	INSERT INTO enrollments
		(enrollment_id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at)
	VALUES
		(:enrollment_id, :student_id, :course_id, :status, :progress_percentage, :enrolled_at, :completed_at)`

	if err := database.NamedExecContext(ctx, db, q, e); err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Enrollment, error) {
	in := struct {
		ID string `db:"enrollment_id"`
	}{id}

	var e Enrollment
	q := selectEnrollment + ` WHERE enrollment_id = :enrollment_id`
	if err := database.NamedQueryStruct(ctx, db, q, in, &e); err != nil {
		return Enrollment{}, fmt.Errorf("selecting enrollment[%s]: %w", id, err)
	}
	return e, nil
}

func FetchByStudent(ctx context.Context, db sqlx.ExtContext, studentID, courseID string) (Enrollment, error) {
	in := struct {
		StudentID string `db:"student_id"`
		CourseID  string `db:"course_id"`
	}{studentID, courseID}

	var e Enrollment
	q := selectEnrollment + ` WHERE student_id = :student_id AND course_id = :course_id`
	if err := database.NamedQueryStruct(ctx, db, q, in, &e); err != nil {
		return Enrollment{}, fmt.Errorf("selecting enrollment of user[%s] in course[%s]: %w", studentID, courseID, err)
	}
	return e, nil
}

// ListByStudent returns the student's enrollments, most recent first.
func ListByStudent(ctx context.Context, db sqlx.ExtContext, studentID string) ([]Summary, error) {
	in := struct {
		StudentID string `db:"student_id"`
	}{studentID}

	const q = `
	SELECT
		e.enrollment_id, e.student_id, e.course_id, e.status, e.progress_percentage,
		e.enrolled_at, e.completed_at, c.title AS course_title, c.slug AS course_slug
	FROM enrollments e
	JOIN courses c ON c.course_id = e.course_id
	WHERE e.student_id = :student_id
	ORDER BY e.enrolled_at DESC`

	var ss []Summary
	if err := database.NamedQuerySlice(ctx, db, q, in, &ss); err != nil {
		return nil, fmt.Errorf("selecting enrollments of user[%s]: %w", studentID, err)
	}
	return ss, nil
}

func UpdateProgress(ctx context.Context, db sqlx.ExtContext, e Enrollment) error {
	const q = `
	UPDATE enrollments SET
		status = :status,
		progress_percentage = :progress_percentage,
		completed_at = :completed_at
	WHERE enrollment_id = :enrollment_id`

	if err := database.NamedExecAffected(ctx, db, q, e); err != nil {
		return fmt.Errorf("updating enrollment[%s]: %w", e.ID, err)
	}
	return nil
}

// SaveLessonProgress inserts or replaces the progress of one lesson.
func SaveLessonProgress(ctx context.Context, db sqlx.ExtContext, lp LessonProgress) error {
	const q = `
	INSERT INTO lesson_progress
		(enrollment_id, lesson_id, is_completed, watch_time_minutes, completed_at)
	VALUES
		(:enrollment_id, :lesson_id, :is_completed, :watch_time_minutes, :completed_at)
	ON CONFLICT (enrollment_id, lesson_id) DO UPDATE SET
		is_completed = EXCLUDED.is_completed,
		watch_time_minutes = EXCLUDED.watch_time_minutes,
		completed_at = EXCLUDED.completed_at`

	if err := database.NamedExecContext(ctx, db, q, lp); err != nil {
		return fmt.Errorf("saving progress of lesson[%s]: %w", lp.LessonID, err)
	}
	return nil
}

func FetchLessonProgress(ctx context.Context, db sqlx.ExtContext, enrollmentID, lessonID string) (LessonProgress, error) {
	in := struct {
		EnrollmentID string `db:"enrollment_id"`
		LessonID     string `db:"lesson_id"`
	}{enrollmentID, lessonID}

	const q = `
	SELECT enrollment_id, lesson_id, is_completed, watch_time_minutes, completed_at
	FROM lesson_progress
	WHERE enrollment_id = :enrollment_id AND lesson_id = :lesson_id`

	var lp LessonProgress
	if err := database.NamedQueryStruct(ctx, db, q, in, &lp); err != nil {
		return LessonProgress{}, fmt.Errorf("selecting progress of lesson[%s]: %w", lessonID, err)
	}
	return lp, nil
}

func CountCompleted(ctx context.Context, db sqlx.ExtContext, enrollmentID string) (int, error) {
	const q = `SELECT COUNT(*) FROM lesson_progress WHERE enrollment_id = $1 AND is_completed`

	var n int
	if err := sqlx.GetContext(ctx, db, &n, q, enrollmentID); err != nil {
		return 0, fmt.Errorf("counting completed lessons of enrollment[%s]: %w", enrollmentID, err)
	}
	return n, nil
}

// CreateCertificate stores c unless the enrollment already has a
// certificate, in which case nothing is written.
func CreateCertificate(ctx context.Context, db sqlx.ExtContext, c Certificate) error {
	const q = `
	INSERT INTO certificates
		(certificate_id, enrollment_id, certificate_number, issued_at, certificate_url)
	VALUES
		(:certificate_id, :enrollment_id, :certificate_number, :issued_at, :certificate_url)
	ON CONFLICT (enrollment_id) DO NOTHING`

	if err := database.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting certificate: %w", err)
	}
	return nil
}

func FetchCertificate(ctx context.Context, db sqlx.ExtContext, enrollmentID string) (Certificate, error) {
	in := struct {
		EnrollmentID string `db:"enrollment_id"`
	}{enrollmentID}

	const q = `
	SELECT certificate_id, enrollment_id, certificate_number, issued_at, certificate_url
	FROM certificates
	WHERE enrollment_id = :enrollment_id`

	var c Certificate
	if err := database.NamedQueryStruct(ctx, db, q, in, &c); err != nil {
		return Certificate{}, fmt.Errorf("selecting certificate of enrollment[%s]: %w", enrollmentID, err)
	}
	return c, nil
}
