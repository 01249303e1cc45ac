package enrollment

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
)

type Enrollment struct {
	ID                 string     `json:"id" db:"enrollment_id"`
	StudentID          string     `json:"student_id" db:"student_id"`
	CourseID           string     `json:"course_id" db:"course_id"`
	Status             Status     `json:"status" db:"status"`
	ProgressPercentage int        `json:"progress_percentage" db:"progress_percentage"`
	EnrolledAt         time.Time  `json:"enrolled_at" db:"enrolled_at"`
	CompletedAt        *time.Time `json:"completed_at" db:"completed_at"`
}

// Summary is an enrollment as listed to its student.
type Summary struct {
	Enrollment
	CourseTitle string `json:"course_title" db:"course_title"`
	CourseSlug  string `json:"course_slug" db:"course_slug"`
}

type LessonProgress struct {
	EnrollmentID     string     `json:"enrollment_id" db:"enrollment_id"`
	LessonID         string     `json:"lesson_id" db:"lesson_id"`
	IsCompleted      bool       `json:"is_completed" db:"is_completed"`
	WatchTimeMinutes int        `json:"watch_time_minutes" db:"watch_time_minutes"`
	CompletedAt      *time.Time `json:"completed_at" db:"completed_at"`
}

type ProgressUp struct {
	IsCompleted      bool `json:"is_completed"`
	WatchTimeMinutes int  `json:"watch_time_minutes" validate:"gte=0"`
}

// ProgressView is returned after a progress update.
type ProgressView struct {
	Lesson      LessonProgress `json:"lesson"`
	Enrollment  Enrollment     `json:"enrollment"`
	Certificate *Certificate   `json:"certificate,omitempty"`
}

type Certificate struct {
	ID           string    `json:"id" db:"certificate_id"`
	EnrollmentID string    `json:"enrollment_id" db:"enrollment_id"`
	Number       string    `json:"certificate_number" db:"certificate_number"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
	URL          string    `json:"certificate_url" db:"certificate_url"`
}

// Percentage is the share of completed lessons, rounded down. A course
// without lessons has no progress.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}

// Advance applies a recomputed percentage to e. Reaching 100 completes the
// enrollment, once; the return value reports that transition. A completed
// enrollment stays at 100 even when lessons are added or marked undone.
func Advance(e *Enrollment, pct int, now time.Time) bool {
	if e.Status == StatusCompleted {
		e.ProgressPercentage = 100
		return false
	}

	e.ProgressPercentage = pct
	if pct < 100 {
		return false
	}

	e.Status = StatusCompleted
	e.CompletedAt = &now
	return true
}

// CertificateURL joins the configured base with the certificate number.
func CertificateURL(base, number string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/" + number
}
