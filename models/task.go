package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility is the task-level access scope.
type Visibility string

const (
	VisibilityAll     Visibility = "all"     // Visible to every user
	VisibilityAdmins  Visibility = "admins"  // Visible to admins only
	VisibilityPrivate Visibility = "private" // Visible to the creator (and admins)
)

// VisibilityFromString converts a string to a Visibility
func VisibilityFromString(s string) (Visibility, error) {
	switch s {
	case "all":
		return VisibilityAll, nil
	case "admins":
		return VisibilityAdmins, nil
	case "private":
		return VisibilityPrivate, nil
	default:
		return "", errors.New("invalid visibility")
	}
}

type Task struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Task        string         `gorm:"not null" json:"task"`
	Date        string         `json:"date,omitempty"` // YYYY-MM-DD, empty means undated
	Time        string         `json:"time,omitempty"` // HH:MM 24-hour, meaningful only with Date
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Visibility  Visibility     `gorm:"type:varchar(20);not null;default:'all'" json:"visibility"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	AssignedTo  *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Display fields filled in by the task service, not stored.
	CreatorUsername    string `gorm:"-" json:"creator_username,omitempty"`
	AssignedToUsername string `gorm:"-" json:"assigned_to_username,omitempty"`
	HasPendingRequest  bool   `gorm:"-" json:"has_pending_request"`
	DateDisplay        string `gorm:"-" json:"date_display,omitempty"`
	TimeDisplay        string `gorm:"-" json:"time_display,omitempty"`
}

// BeforeCreate is a GORM hook that runs before creating a new task
func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Visibility == "" {
		t.Visibility = VisibilityAll
	}
	return nil
}
