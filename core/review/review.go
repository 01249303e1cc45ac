package review

import "time"

// Review is a student's rating of a course. A student reviews a course at
// most once.
type Review struct {
	ID        string    `json:"id" db:"review_id"`
	CourseID  string    `json:"course_id" db:"course_id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Rating    int       `json:"rating" db:"rating"`
	Title     string    `json:"title" db:"title"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type ReviewNew struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"required,max=200"`
	Comment string `json:"comment" validate:"required"`
}
