package models

import "encoding/json"

// NotificationEvent is the payload published on the notification subject when
// either pending queue changes.
type NotificationEvent struct {
	UserID    string `json:"user_id"`
	EventType string `json:"event_type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (e NotificationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *NotificationEvent) FromJSON(data []byte) error {
	return json.Unmarshal(data, e)
}
