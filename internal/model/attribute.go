package model

import (
	"time"

	"gorm.io/datatypes"

	"timesheet/internal/attribute"
)

// Attribute is a typed key/value pair belonging to one project.
// The value column always holds the canonical string form for its type.
type Attribute struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	ProjectID uint                        `json:"project_id" gorm:"not null;uniqueIndex:idx_attributes_project_name,priority:1"`
	Name      string                      `json:"name" gorm:"size:255;not null;uniqueIndex:idx_attributes_project_name,priority:2"`
	Type      attribute.Type              `json:"type" gorm:"type:varchar(20);not null;default:'string'"`
	Value     string                      `json:"value" gorm:"size:255;not null"`
	Options   datatypes.JSONSlice[string] `json:"options" gorm:"type:json"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// TypedValue parses the stored value according to the attribute type.
func (a *Attribute) TypedValue() (attribute.Value, error) {
	v, _, err := attribute.Check(a.Type, a.Value, a.Options)
	return v, err
}
