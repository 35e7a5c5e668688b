package model

import (
	"time"

	"timesheet/internal/attribute"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// ProjectStatuses lists every valid status.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
	ProjectStatusCancelled,
}

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	for _, status := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Project groups members, typed attributes and the time logged against it.
type Project struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"size:255;not null;index"`
	Description *string       `json:"description" gorm:"type:text"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Users      []User      `json:"users" gorm:"many2many:project_user;constraint:OnDelete:CASCADE"`
	Attributes []Attribute `json:"attributes" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Timesheets []Timesheet `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// AttributeValue returns the value of the loaded attribute called name.
// Matching is exact and case-sensitive.
func (p *Project) AttributeValue(name string) (attribute.Value, bool) {
	for i := range p.Attributes {
		if p.Attributes[i].Name == name {
			v, err := p.Attributes[i].TypedValue()
			if err != nil {
				return attribute.Value{}, false
			}
			return v, true
		}
	}
	return attribute.Value{}, false
}

// ProjectUser is the membership pivot between projects and users.
type ProjectUser struct {
	ProjectID uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

// TableName overrides the pluralised default.
func (ProjectUser) TableName() string {
	return "project_user"
}
