package course

import (
	"github.com/irsalhamdi/course-catalog/validate"
)

// requiredOnReplace are the fields a full (PUT) update must carry.
var requiredOnReplace = []string{
	"title", "description", "thumbnail", "price", "level",
	"duration_hours", "requirements", "what_you_learn",
}

// Check applies the create rules to the fields present in up. With full set,
// every field of requiredOnReplace must be present as well.
func (up CourseUp) Check(current Course, full bool) validate.FieldErrors {
	present := up.present()

	fe := make(validate.FieldErrors)
	for field, msg := range validate.Collect(up.merge(current)) {
		if present[field] {
			fe.Add(field, msg)
		}
	}

	if full {
		for _, field := range requiredOnReplace {
			if !present[field] {
				fe.Add(field, "this field is required")
			}
		}
	}

	return fe
}

// Apply copies the fields present in up onto c.
func (up CourseUp) Apply(c Course) Course {
	if up.Title != nil {
		c.Title = *up.Title
	}
	if up.Description != nil {
		c.Description = *up.Description
	}
	if up.InstructorID != nil {
		c.InstructorID = *up.InstructorID
	}
	if up.CategoryID != nil {
		c.CategoryID = *up.CategoryID
	}
	if up.Thumbnail != nil {
		c.Thumbnail = *up.Thumbnail
	}
	if up.TrailerURL != nil {
		c.TrailerURL = up.TrailerURL
		if *up.TrailerURL == "" {
			c.TrailerURL = nil
		}
	}
	if up.Price != nil {
		c.Price = *up.Price
	}
	if up.DiscountPercentage != nil {
		c.DiscountPercentage = *up.DiscountPercentage
	}
	if up.Level != nil {
		c.Level = *up.Level
	}
	if up.DurationHours != nil {
		c.DurationHours = *up.DurationHours
	}
	if up.Requirements != nil {
		c.Requirements = *up.Requirements
	}
	if up.WhatYouLearn != nil {
		c.WhatYouLearn = *up.WhatYouLearn
	}
	if up.Language != nil {
		c.Language = *up.Language
	}
	if up.IsFeatured != nil {
		c.IsFeatured = *up.IsFeatured
	}
	return c
}

func (up CourseUp) merge(c Course) CourseNew {
	c = up.Apply(c)
	return CourseNew{
		Title:              c.Title,
		Description:        c.Description,
		InstructorID:       c.InstructorID,
		CategoryID:         c.CategoryID,
		Thumbnail:          c.Thumbnail,
		TrailerURL:         c.TrailerURL,
		Price:              c.Price,
		DiscountPercentage: c.DiscountPercentage,
		Level:              c.Level,
		DurationHours:      c.DurationHours,
		Requirements:       c.Requirements,
		WhatYouLearn:       c.WhatYouLearn,
		Language:           c.Language,
		IsFeatured:         c.IsFeatured,
	}
}

func (up CourseUp) present() map[string]bool {
	return map[string]bool{
		"title":               up.Title != nil,
		"description":         up.Description != nil,
		"instructor_id":       up.InstructorID != nil,
		"category_id":         up.CategoryID != nil,
		"thumbnail":           up.Thumbnail != nil,
		"trailer_url":         up.TrailerURL != nil,
		"price":               up.Price != nil,
		"discount_percentage": up.DiscountPercentage != nil,
		"level":               up.Level != nil,
		"duration_hours":      up.DurationHours != nil,
		"requirements":        up.Requirements != nil,
		"what_you_learn":      up.WhatYouLearn != nil,
		"language":            up.Language != nil,
		"is_featured":         up.IsFeatured != nil,
	}
}
