package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	TaskCreated   EventType = "task.created"
	TaskUpdated   EventType = "task.updated"
	TaskDeleted   EventType = "task.deleted"
	TaskCompleted EventType = "task.completed"
	TaskReopened  EventType = "task.reopened"

	UserCreated EventType = "user.created"
	UserUpdated EventType = "user.updated"
	UserDeleted EventType = "user.deleted"

	CompletionRequestCreated  EventType = "completion_request.created"
	CompletionRequestApproved EventType = "completion_request.approved"
	CompletionRequestRejected EventType = "completion_request.rejected"

	AccountRequestCreated  EventType = "account_request.created"
	AccountRequestApproved EventType = "account_request.approved"
	AccountRequestRejected EventType = "account_request.rejected"
)
