package services

import (
	"errors"
	"strings"
	"time"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/database"
	"choretrack/choretrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRequestServiceInterface interface {
	CreateAccountRequest(db *database.Database, username, passwordHash string) (models.AccountRequest, error)
	ResolveRequest(db *database.Database, viewer models.Viewer, id string, action models.AccountRequestAction) (models.AccountRequest, error)
	GetPendingRequests(db *database.Database, viewer models.Viewer) ([]models.AccountRequest, error)
	CountPending(db *database.Database) (int64, error)
}

type AccountRequestService struct{}

// CreateAccountRequest queues a registration for admin approval. The username
// must be free among existing users and not already queued.
func (s *AccountRequestService) CreateAccountRequest(db *database.Database, username, passwordHash string) (models.AccountRequest, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return models.AccountRequest{}, ErrInvalidInput
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.AccountRequest{}, tx.Error
	}

	var userCount int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&userCount).Error; err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}
	var pendingCount int64
	err := tx.Model(&models.AccountRequest{}).
		Where("username = ? AND status = ?", username, models.AccountRequestPending).
		Count(&pendingCount).Error
	if err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}
	if userCount > 0 || pendingCount > 0 {
		tx.Rollback()
		return models.AccountRequest{}, ErrUsernameTaken
	}

	request := models.AccountRequest{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		RequestedAt:  time.Now().UTC(),
		Status:       models.AccountRequestPending,
	}

	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	event, err := models.NewEvent(
		string(broker.AccountRequestCreated),
		"account_request",
		request.ID.String(),
		map[string]interface{}{
			"request_id": request.ID.String(),
			"username":   request.Username,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	publishEvent(broker.AccountRequestEventsSubject, event)

	return request, nil
}

// ResolveRequest settles a pending account request. Approval creates the user
// with the granted role in the same transaction. Resolution is one-way; a
// resolved request is never re-queued.
func (s *AccountRequestService) ResolveRequest(db *database.Database, viewer models.Viewer, id string, action models.AccountRequestAction) (models.AccountRequest, error) {
	if !viewer.CanResolveRequests() {
		return models.AccountRequest{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.AccountRequest{}, tx.Error
	}

	var request models.AccountRequest
	if err := tx.First(&request, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AccountRequest{}, ErrRequestNotFound
		}
		return models.AccountRequest{}, err
	}
	if request.Resolved() {
		tx.Rollback()
		return models.AccountRequest{}, ErrRequestAlreadyResolved
	}

	var status models.AccountRequestStatus
	eventType := broker.AccountRequestApproved
	switch action {
	case models.AccountActionApproveAdmin:
		status = models.AccountRequestApprovedAdmin
	case models.AccountActionApproveUser:
		status = models.AccountRequestApprovedUser
	case models.AccountActionReject:
		status = models.AccountRequestRejected
		eventType = broker.AccountRequestRejected
	default:
		tx.Rollback()
		return models.AccountRequest{}, ErrInvalidInput
	}

	if status != models.AccountRequestRejected {
		// The username may have been taken since the request was filed
		var userCount int64
		if err := tx.Model(&models.User{}).Where("username = ?", request.Username).Count(&userCount).Error; err != nil {
			tx.Rollback()
			return models.AccountRequest{}, err
		}
		if userCount > 0 {
			tx.Rollback()
			return models.AccountRequest{}, ErrUsernameTaken
		}

		user := models.User{
			ID:           uuid.New(),
			Username:     request.Username,
			PasswordHash: request.PasswordHash,
			IsAdmin:      status == models.AccountRequestApprovedAdmin,
		}
		if err := tx.Create(&user).Error; err != nil {
			tx.Rollback()
			return models.AccountRequest{}, err
		}
	}

	now := time.Now().UTC()
	err := tx.Model(&request).Updates(map[string]interface{}{
		"status":      status,
		"resolved_at": &now,
	}).Error
	if err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	event, err := models.NewEvent(
		string(eventType),
		"account_request",
		viewer.ID.String(),
		map[string]interface{}{
			"request_id": request.ID.String(),
			"username":   request.Username,
			"action":     string(action),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.AccountRequest{}, err
	}

	publishEvent(broker.AccountRequestEventsSubject, event)

	return request, nil
}

func (s *AccountRequestService) GetPendingRequests(db *database.Database, viewer models.Viewer) ([]models.AccountRequest, error) {
	if !viewer.CanResolveRequests() {
		return nil, ErrForbidden
	}

	var requests []models.AccountRequest
	err := db.DB.
		Where("status = ?", models.AccountRequestPending).
		Order("requested_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *AccountRequestService) CountPending(db *database.Database) (int64, error) {
	var count int64
	err := db.DB.Model(&models.AccountRequest{}).
		Where("status = ?", models.AccountRequestPending).
		Count(&count).Error
	return count, err
}

var AccountRequestServiceInstance AccountRequestServiceInterface = &AccountRequestService{}
