package instructor

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instructor is the teaching profile of a user. Only verified instructors may
// own new courses.
type Instructor struct {
	ID            string          `json:"id" db:"instructor_id"`
	UserID        string          `json:"user_id" db:"user_id"`
	Bio           string          `json:"bio" db:"bio"`
	ProfileImage  string          `json:"profile_image" db:"profile_image"`
	Expertise     string          `json:"expertise" db:"expertise"`
	TotalStudents int             `json:"total_students" db:"total_students"`
	Rating        decimal.Decimal `json:"rating" db:"rating"`
	IsVerified    bool            `json:"is_verified" db:"is_verified"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	CoursesCount  int             `json:"courses_count" db:"courses_count"`
}

type InstructorNew struct {
	Bio          string `json:"bio" validate:"required"`
	ProfileImage string `json:"profile_image" validate:"required,url"`
	Expertise    string `json:"expertise" validate:"required,max=200"`
}

type VerificationUp struct {
	IsVerified bool `json:"is_verified"`
}
