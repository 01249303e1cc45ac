package category

import "encoding/json"

type Category struct {
	ID          string  `json:"id" db:"category_id"`
	Name        string  `json:"name" db:"name"`
	Slug        string  `json:"slug" db:"slug"`
	Description string  `json:"description" db:"description"`
	Icon        string  `json:"icon" db:"icon"`
	ParentID    *string `json:"parent" db:"parent_id"`
	IsActive    bool    `json:"is_active" db:"is_active"`
	SubCount    int     `json:"sub_count" db:"sub_count"`
}

type CategoryNew struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required"`
	Icon        string  `json:"icon" validate:"required,max=50"`
	ParentID    *string `json:"parent" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

type CategoryUp struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Description *string  `json:"description"`
	Icon        *string  `json:"icon" validate:"omitempty,max=50"`
	Parent      ParentUp `json:"parent"`
	IsActive    *bool    `json:"is_active"`
}

// ParentUp tells an absent parent apart from an explicit null, which moves
// the category back to the root.
type ParentUp struct {
	Set bool
	ID  *string
}

func (p *ParentUp) UnmarshalJSON(b []byte) error {
	p.Set = true
	p.ID = nil
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &p.ID)
}

// apply copies every present field but the name onto c. Renames go through
// the handler since they regenerate the slug.
func (cu CategoryUp) apply(c Category) Category {
	if cu.Description != nil {
		c.Description = *cu.Description
	}
	if cu.Icon != nil {
		c.Icon = *cu.Icon
	}
	if cu.Parent.Set {
		c.ParentID = cu.Parent.ID
	}
	if cu.IsActive != nil {
		c.IsActive = *cu.IsActive
	}
	return c
}

// createsCycle reports whether making parentID the parent of id would close
// a loop. ancestors is the chain starting at parentID and walking up.
func createsCycle(id string, parentID string, ancestors []string) bool {
	if id == parentID {
		return true
	}
	for _, a := range ancestors {
		if a == id {
			return true
		}
	}
	return false
}
