package services

import (
	"errors"
	"time"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/database"
	"choretrack/choretrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionRequestServiceInterface interface {
	RequestCompletion(db *database.Database, viewer models.Viewer, taskID uuid.UUID) (models.CompletionRequest, error)
	ResolveRequest(db *database.Database, viewer models.Viewer, id string, approve bool) (models.CompletionRequest, error)
	GetPendingRequests(db *database.Database, viewer models.Viewer) ([]models.CompletionRequest, error)
	CountPending(db *database.Database) (int64, error)
}

type CompletionRequestService struct{}

// RequestCompletion files a regular user's petition to mark a task complete.
// The task stays incomplete until an admin resolves the request. At most one
// pending request may exist per task.
func (s *CompletionRequestService) RequestCompletion(db *database.Database, viewer models.Viewer, taskID uuid.UUID) (models.CompletionRequest, error) {
	if viewer.CanCompleteDirectly() {
		// Admins complete tasks directly, they never file requests
		return models.CompletionRequest{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.CompletionRequest{}, tx.Error
	}

	// Lock the task row so concurrent requests for the same task serialize
	// on the pending-count check below.
	var task models.Task
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, "id = ?", taskID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CompletionRequest{}, ErrTaskNotFound
		}
		return models.CompletionRequest{}, err
	}
	if !task.VisibleTo(viewer) {
		tx.Rollback()
		return models.CompletionRequest{}, ErrTaskNotFound
	}
	if task.Completed {
		tx.Rollback()
		return models.CompletionRequest{}, ErrTaskAlreadyCompleted
	}

	var pendingCount int64
	err := tx.Model(&models.CompletionRequest{}).
		Where("task_id = ? AND status = ?", task.ID, models.CompletionRequestPending).
		Count(&pendingCount).Error
	if err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}
	if pendingCount > 0 {
		tx.Rollback()
		return models.CompletionRequest{}, ErrDuplicatePendingRequest
	}

	request := models.CompletionRequest{
		ID:                uuid.New(),
		TaskID:            task.ID,
		RequesterID:       viewer.ID,
		RequesterUsername: viewer.Username,
		RequestedAt:       time.Now().UTC(),
		Status:            models.CompletionRequestPending,
	}

	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	event, err := models.NewEvent(
		string(broker.CompletionRequestCreated),
		"completion_request",
		viewer.ID.String(),
		map[string]interface{}{
			"request_id": request.ID.String(),
			"task_id":    task.ID.String(),
			"requester":  viewer.Username,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	publishEvent(broker.CompletionRequestEventsSubject, event)

	request.TaskText = task.Task
	return request, nil
}

// ResolveRequest settles a pending request. Approval completes the task;
// rejection leaves it untouched. Either way the requester may file a new
// request afterwards.
func (s *CompletionRequestService) ResolveRequest(db *database.Database, viewer models.Viewer, id string, approve bool) (models.CompletionRequest, error) {
	if !viewer.CanResolveRequests() {
		return models.CompletionRequest{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.CompletionRequest{}, tx.Error
	}

	var request models.CompletionRequest
	if err := tx.First(&request, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CompletionRequest{}, ErrRequestNotFound
		}
		return models.CompletionRequest{}, err
	}
	if request.Resolved() {
		tx.Rollback()
		return models.CompletionRequest{}, ErrRequestAlreadyResolved
	}

	now := time.Now().UTC()
	status := models.CompletionRequestRejected
	eventType := broker.CompletionRequestRejected
	if approve {
		status = models.CompletionRequestApproved
		eventType = broker.CompletionRequestApproved

		var task models.Task
		if err := tx.First(&task, "id = ?", request.TaskID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.CompletionRequest{}, ErrTaskNotFound
			}
			return models.CompletionRequest{}, err
		}

		err := tx.Model(&task).Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": &now,
		}).Error
		if err != nil {
			tx.Rollback()
			return models.CompletionRequest{}, err
		}
	}

	err := tx.Model(&request).Updates(map[string]interface{}{
		"status":      status,
		"resolved_at": &now,
	}).Error
	if err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	event, err := models.NewEvent(
		string(eventType),
		"completion_request",
		viewer.ID.String(),
		map[string]interface{}{
			"request_id": request.ID.String(),
			"task_id":    request.TaskID.String(),
			"approved":   approve,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.CompletionRequest{}, err
	}

	publishEvent(broker.CompletionRequestEventsSubject, event)

	return request, nil
}

func (s *CompletionRequestService) GetPendingRequests(db *database.Database, viewer models.Viewer) ([]models.CompletionRequest, error) {
	if !viewer.CanResolveRequests() {
		return nil, ErrForbidden
	}

	var requests []models.CompletionRequest
	err := db.DB.
		Where("status = ?", models.CompletionRequestPending).
		Order("requested_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		return requests, nil
	}

	taskIDs := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		taskIDs = append(taskIDs, r.TaskID)
	}
	var tasks []models.Task
	if err := db.DB.Where("id IN ?", taskIDs).Find(&tasks).Error; err != nil {
		return nil, err
	}
	texts := make(map[uuid.UUID]string, len(tasks))
	for _, t := range tasks {
		texts[t.ID] = t.Task
	}
	for i := range requests {
		requests[i].TaskText = texts[requests[i].TaskID]
	}

	return requests, nil
}

func (s *CompletionRequestService) CountPending(db *database.Database) (int64, error) {
	var count int64
	err := db.DB.Model(&models.CompletionRequest{}).
		Where("status = ?", models.CompletionRequestPending).
		Count(&count).Error
	return count, err
}

var CompletionRequestServiceInstance CompletionRequestServiceInterface = &CompletionRequestService{}
