package section

type Section struct {
	ID          string `json:"id" db:"section_id"`
	CourseID    string `json:"course_id" db:"course_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Order       int    `json:"order" db:"order"`
}

type SectionNew struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
}

// Lesson is a unit of content. The video and resources are only served to
// callers allowed to watch it; preview lessons are open to everyone.
type Lesson struct {
	ID              string `json:"id" db:"lesson_id"`
	SectionID       string `json:"section_id" db:"section_id"`
	CourseID        string `json:"course_id" db:"course_id"`
	Title           string `json:"title" db:"title"`
	Content         string `json:"content" db:"content"`
	VideoURL        string `json:"video_url" db:"video_url"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
	Order           int    `json:"order" db:"order"`
	IsPreview       bool   `json:"is_preview" db:"is_preview"`
	Resources       string `json:"resources" db:"resources"`
}

type LessonNew struct {
	Title           string `json:"title" validate:"required,max=200"`
	Content         string `json:"content" validate:"required"`
	VideoURL        string `json:"video_url" validate:"required,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	Order           int    `json:"order" validate:"gte=0"`
	IsPreview       bool   `json:"is_preview"`
	Resources       string `json:"resources"`
}
