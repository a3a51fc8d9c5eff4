package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountRequestStatus is the resolution state of an account request.
// Resolution is one-way; a resolved request is never re-queued.
type AccountRequestStatus string

const (
	AccountRequestPending       AccountRequestStatus = "pending"
	AccountRequestApprovedAdmin AccountRequestStatus = "approved_admin"
	AccountRequestApprovedUser  AccountRequestStatus = "approved_user"
	AccountRequestRejected      AccountRequestStatus = "rejected"
)

// AccountRequestAction is an admin resolution action on a pending request.
type AccountRequestAction string

const (
	AccountActionApproveAdmin AccountRequestAction = "approve_admin"
	AccountActionApproveUser  AccountRequestAction = "approve_user"
	AccountActionReject       AccountRequestAction = "reject"
)

// AccountRequestActionFromString converts a string to an AccountRequestAction
func AccountRequestActionFromString(s string) (AccountRequestAction, error) {
	switch s {
	case "approve_admin":
		return AccountActionApproveAdmin, nil
	case "approve_user":
		return AccountActionApproveUser, nil
	case "reject":
		return AccountActionReject, nil
	default:
		return "", errors.New("invalid account request action")
	}
}

// AccountRequest is a petition for a new login, approved as admin or regular
// user or rejected. The requested credentials ride along so approval can mint
// the user without a second round trip.
type AccountRequest struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string               `gorm:"not null;index" json:"username"`
	PasswordHash string               `gorm:"not null" json:"-"`
	RequestedAt  time.Time            `gorm:"not null" json:"requested_at"`
	Status       AccountRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ResolvedAt   *time.Time           `json:"resolved_at,omitempty"`
}

func (r AccountRequest) Resolved() bool {
	return r.Status != AccountRequestPending
}

// BeforeCreate is a GORM hook that runs before creating a new request
func (r *AccountRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RequestedAt.IsZero() {
		r.RequestedAt = time.Now().UTC()
	}
	return nil
}
