package broker

import (
	"errors"
	"log"

	"github.com/nats-io/nats.go"
)

// ErrProducerNotInitialized is returned when publishing before InitProducer
// succeeded; callers treat publishing as best-effort and only log it.
var ErrProducerNotInitialized = errors.New("broker producer is not initialized")

type Producer struct {
	conn *nats.Conn
}

var DefaultProducer *Producer

// InitProducer connects to NATS and installs the default producer. The server
// keeps running without it; event publishing degrades to log lines.
func InitProducer(url string) error {
	conn, err := nats.Connect(url,
		nats.Name("choretrack-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}

	DefaultProducer = &Producer{conn: conn}
	log.Println("NATS producer initialized")
	return nil
}

func (p *Producer) Publish(subject string, data []byte) error {
	if p == nil || p.conn == nil {
		return ErrProducerNotInitialized
	}
	return p.conn.Publish(subject, data)
}

// PublishMessage publishes on the default producer, logging instead of
// failing when the broker is unavailable.
func PublishMessage(subject string, data []byte) {
	if err := DefaultProducer.Publish(subject, data); err != nil {
		log.Printf("Failed to publish message to %s: %v", subject, err)
	}
}

func CloseProducer() {
	if DefaultProducer != nil && DefaultProducer.conn != nil {
		DefaultProducer.conn.Drain()
		DefaultProducer.conn.Close()
		DefaultProducer = nil
	}
}
