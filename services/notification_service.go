package services

import (
	"fmt"
	"time"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/database"
	"choretrack/choretrack/models"
)

// PendingSummary aggregates the two pending queues admins act on.
type PendingSummary struct {
	AccountRequests    int64  `json:"account_requests"`
	CompletionRequests int64  `json:"completion_requests"`
	Message            string `json:"message,omitempty"`
}

type NotificationServiceInterface interface {
	GetPendingSummary(db *database.Database, viewer models.Viewer) (PendingSummary, error)
	PublishNotification(userID, eventType, message string) error
}

type NotificationService struct{}

// ComposePendingMessage builds the notification badge text. Each clause is
// pluralized independently and the two are joined only when both counts are
// positive; both zero yields an empty message (no notification shown).
func ComposePendingMessage(accountRequests, completionRequests int64) string {
	var clauses []string
	if accountRequests > 0 {
		clauses = append(clauses, pluralize(accountRequests, "pending account request"))
	}
	if completionRequests > 0 {
		clauses = append(clauses, pluralize(completionRequests, "pending task completion request"))
	}

	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return clauses[0] + " and " + clauses[1]
	}
}

func pluralize(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (s *NotificationService) GetPendingSummary(db *database.Database, viewer models.Viewer) (PendingSummary, error) {
	if !viewer.CanResolveRequests() {
		return PendingSummary{}, ErrForbidden
	}

	accounts, err := AccountRequestServiceInstance.CountPending(db)
	if err != nil {
		return PendingSummary{}, err
	}
	completions, err := CompletionRequestServiceInstance.CountPending(db)
	if err != nil {
		return PendingSummary{}, err
	}

	return PendingSummary{
		AccountRequests:    accounts,
		CompletionRequests: completions,
		Message:            ComposePendingMessage(accounts, completions),
	}, nil
}

func (s *NotificationService) PublishNotification(userID, eventType, message string) error {
	event := models.NotificationEvent{
		UserID:    userID,
		EventType: eventType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	eventJSON, err := event.ToJSON()
	if err != nil {
		return err
	}

	return broker.DefaultProducer.Publish(broker.NotificationSubject, eventJSON)
}

var NotificationServiceInstance NotificationServiceInterface = &NotificationService{}
