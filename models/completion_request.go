package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompletionRequestStatus is the resolution state of a completion request.
type CompletionRequestStatus string

const (
	CompletionRequestPending  CompletionRequestStatus = "pending"
	CompletionRequestApproved CompletionRequestStatus = "approved"
	CompletionRequestRejected CompletionRequestStatus = "rejected"
)

// CompletionRequest is a regular user's petition to mark a task complete,
// resolved by an admin. At most one pending request may exist per task; the
// partial unique index enforces that even if two inserts race.
type CompletionRequest struct {
	ID                uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID            uuid.UUID               `gorm:"type:uuid;not null;index;index:idx_completion_requests_pending,unique,where:status = 'pending'" json:"task_id"`
	RequesterID       uuid.UUID               `gorm:"type:uuid;not null" json:"requester_id"`
	RequesterUsername string                  `gorm:"not null" json:"requester_username"`
	RequestedAt       time.Time               `gorm:"not null" json:"requested_at"`
	Status            CompletionRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ResolvedAt        *time.Time              `json:"resolved_at,omitempty"`

	// Display field filled in by the service, not stored.
	TaskText string `gorm:"-" json:"task_text,omitempty"`
}

func (r CompletionRequest) Resolved() bool {
	return r.Status != CompletionRequestPending
}

// BeforeCreate is a GORM hook that runs before creating a new request
func (r *CompletionRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RequestedAt.IsZero() {
		r.RequestedAt = time.Now().UTC()
	}
	return nil
}
