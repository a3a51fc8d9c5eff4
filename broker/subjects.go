package broker

// NATS subjects the API publishes on.
const (
	UserEventsSubject              = "user_events"
	TaskEventsSubject              = "task_events"
	CompletionRequestEventsSubject = "completion_request_events"
	AccountRequestEventsSubject    = "account_request_events"
	NotificationSubject            = "notification_events"
)
