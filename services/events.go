package services

import (
	"log"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/models"
)

// publishEvent pushes a committed outbox event onto its NATS subject.
// Best-effort; a broker outage never fails the originating mutation.
func publishEvent(subject string, event *models.Event) {
	if event == nil {
		return
	}
	data, err := event.ToJSON()
	if err != nil {
		log.Printf("Failed to serialize event %s: %v", event.Event, err)
		return
	}
	broker.PublishMessage(subject, data)
}
