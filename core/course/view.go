package course

import (
	"time"

	"github.com/irsalhamdi/course-catalog/core/category"
	"github.com/irsalhamdi/course-catalog/core/instructor"
)

type CategoryView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Parent      *string `json:"parent"`
	SubCount    int     `json:"sub_count"`
}

type InstructorView struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Bio           string    `json:"bio"`
	ProfileImage  string    `json:"profile_image"`
	Expertise     string    `json:"expertise"`
	TotalStudents int       `json:"total_students"`
	Rating        string    `json:"rating"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
	CoursesCount  *int      `json:"courses_count,omitempty"`
}

// ListView is the representation used by the list, create and update
// endpoints.
type ListView struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Slug               string         `json:"slug"`
	Description        string         `json:"description"`
	Price              string         `json:"price"`
	DiscountPercentage int            `json:"discount_percentage"`
	FinalPrice         string         `json:"final_price"`
	Category           CategoryView   `json:"category"`
	Instructor         InstructorView `json:"instructor"`
	TotalLessons       int            `json:"total_lessons"`
	TotalDuration      int            `json:"total_duration"`
	StudentsCount      int            `json:"students_count"`
	AverageRating      float64        `json:"average_rating"`
	ReviewsCount       int            `json:"reviews_count"`
	Language           string         `json:"language"`
	Level              Level          `json:"level"`
	IsFeatured         bool           `json:"is_featured"`
	DurationHours      string         `json:"duration_hours"`
	Requirements       string         `json:"requirements"`
	WhatYouLearn       string         `json:"what_you_learn"`
	Thumbnail          string         `json:"thumbnail"`
	Status             Status         `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
}

// DetailView is the single-course representation.
type DetailView struct {
	ListView
	TrailerURL *string       `json:"trailer_url"`
	Sections   []SectionView `json:"sections"`
	Reviews    []ReviewView  `json:"reviews"`
	IsEnrolled bool          `json:"is_enrolled"`
}

type SectionView struct {
	ID      string       `json:"id" db:"section_id"`
	Title   string       `json:"title" db:"title"`
	Order   int          `json:"order" db:"order"`
	Lessons []LessonView `json:"lessons" db:"-"`
}

type LessonView struct {
	ID              string `json:"id" db:"lesson_id"`
	SectionID       string `json:"-" db:"section_id"`
	Title           string `json:"title" db:"title"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
	IsPreview       bool   `json:"is_preview" db:"is_preview"`
}

type ReviewView struct {
	ID        string    `json:"id" db:"review_id"`
	User      string    `json:"user" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func newListView(c Course, st Stats, ins instructor.Instructor, cat category.Category) ListView {
	return ListView{
		ID:                 c.ID,
		Title:              c.Title,
		Slug:               c.Slug,
		Description:        c.Description,
		Price:              c.Price.StringFixed(2),
		DiscountPercentage: c.DiscountPercentage,
		FinalPrice:         FinalPrice(c.Price, c.DiscountPercentage).StringFixed(2),
		Category:           newCategoryView(cat),
		Instructor:         newInstructorView(ins, false),
		TotalLessons:       st.Lessons,
		TotalDuration:      st.Duration,
		StudentsCount:      st.Students,
		AverageRating:      st.AverageRating(),
		ReviewsCount:       st.Reviews,
		Language:           c.Language,
		Level:              c.Level,
		IsFeatured:         c.IsFeatured,
		DurationHours:      c.DurationHours.StringFixed(2),
		Requirements:       c.Requirements,
		WhatYouLearn:       c.WhatYouLearn,
		Thumbnail:          c.Thumbnail,
		Status:             c.Status,
		CreatedAt:          c.CreatedAt,
	}
}

func newCategoryView(c category.Category) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Parent:      c.ParentID,
		SubCount:    c.SubCount,
	}
}

func newInstructorView(i instructor.Instructor, withCount bool) InstructorView {
	v := InstructorView{
		ID:            i.ID,
		UserID:        i.UserID,
		Bio:           i.Bio,
		ProfileImage:  i.ProfileImage,
		Expertise:     i.Expertise,
		TotalStudents: i.TotalStudents,
		Rating:        i.Rating.StringFixed(2),
		IsVerified:    i.IsVerified,
		CreatedAt:     i.CreatedAt,
	}
	if withCount {
		n := i.CoursesCount
		v.CoursesCount = &n
	}
	return v
}
