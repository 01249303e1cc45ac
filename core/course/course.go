package course

import (
	"time"

	"github.com/shopspring/decimal"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// transitions lists, for each status, the statuses a course may move to.
// Archived is terminal.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusArchived},
	StatusPublished: {StatusDraft, StatusArchived},
	StatusArchived:  {},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Course struct {
	ID                 string          `db:"course_id"`
	Title              string          `db:"title"`
	Slug               string          `db:"slug"`
	Description        string          `db:"description"`
	InstructorID       string          `db:"instructor_id"`
	CategoryID         string          `db:"category_id"`
	Thumbnail          string          `db:"thumbnail"`
	TrailerURL         *string         `db:"trailer_url"`
	Price              decimal.Decimal `db:"price"`
	DiscountPercentage int             `db:"discount_percentage"`
	Level              Level           `db:"level"`
	Status             Status          `db:"status"`
	DurationHours      decimal.Decimal `db:"duration_hours"`
	Requirements       string          `db:"requirements"`
	WhatYouLearn       string          `db:"what_you_learn"`
	Language           string          `db:"language"`
	IsFeatured         bool            `db:"is_featured"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// CourseNew is the create payload. Status is accepted so clients may echo a
// full representation, but it is ignored: new courses are always drafts.
type CourseNew struct {
	Title              string          `json:"title" validate:"required,min=10,max=200"`
	Description        string          `json:"description" validate:"required,min=51"`
	InstructorID       string          `json:"instructor_id" validate:"required,uuid"`
	CategoryID         string          `json:"category_id" validate:"required,uuid"`
	Thumbnail          string          `json:"thumbnail" validate:"required,url"`
	TrailerURL         *string         `json:"trailer_url" validate:"omitempty,url"`
	Price              decimal.Decimal `json:"price" validate:"decimals=2,gt=0,lt=100000000"`
	DiscountPercentage int             `json:"discount_percentage" validate:"gte=0,lte=100"`
	Level              Level           `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	DurationHours      decimal.Decimal `json:"duration_hours" validate:"decimals=2,gt=0,lt=1000"`
	Requirements       string          `json:"requirements" validate:"required"`
	WhatYouLearn       string          `json:"what_you_learn" validate:"required"`
	Language           string          `json:"language" validate:"notblank,max=50"`
	IsFeatured         bool            `json:"is_featured"`
	Status             *Status         `json:"status,omitempty"`
}

// CourseUp is the update payload. A nil field was absent from the request
// and leaves the stored value untouched.
type CourseUp struct {
	Title              *string          `json:"title"`
	Description        *string          `json:"description"`
	InstructorID       *string          `json:"instructor_id"`
	CategoryID         *string          `json:"category_id"`
	Thumbnail          *string          `json:"thumbnail"`
	TrailerURL         *string          `json:"trailer_url"`
	Price              *decimal.Decimal `json:"price"`
	DiscountPercentage *int             `json:"discount_percentage"`
	Level              *Level           `json:"level"`
	DurationHours      *decimal.Decimal `json:"duration_hours"`
	Requirements       *string          `json:"requirements"`
	WhatYouLearn       *string          `json:"what_you_learn"`
	Language           *string          `json:"language"`
	IsFeatured         *bool            `json:"is_featured"`
	Status             *Status          `json:"status,omitempty"`
}

type StatusUp struct {
	Status Status `json:"status" validate:"required,oneof=draft published archived"`
}
