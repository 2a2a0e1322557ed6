package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pateando/pateando-api/models"
	amqp "github.com/streadway/amqp"
)

// appointmentQueue is the durable queue lifecycle events are published to.
const appointmentQueue = "appointment_events"

// AppointmentEvent describes one observed lifecycle transition.
type AppointmentEvent struct {
	AppointmentID   uint                     `json:"appointmentId"`
	FromStatus      models.AppointmentStatus `json:"fromStatus"`
	ToStatus        models.AppointmentStatus `json:"toStatus"`
	ActorID         uint                     `json:"actorId"`
	EmergencyActive bool                     `json:"emergencyActive"`
	OccurredAt      time.Time                `json:"occurredAt"`
}

// EventPublisher publishes appointment lifecycle events.
type EventPublisher interface {
	PublishAppointmentEvent(event AppointmentEvent) error
	Close() error
}

var eventPublisherInstance EventPublisher = NoopEventPublisher{}

// InitEventPublisher connects to RabbitMQ and declares the event queue.
// With an empty URL the publisher stays a no-op, so a broker is optional.
func InitEventPublisher(amqpURL string) (EventPublisher, error) {
	if amqpURL == "" {
		log.Println("AMQP_URL not set, appointment events will not be published")
		eventPublisherInstance = NoopEventPublisher{}
		return eventPublisherInstance, nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		appointmentQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", appointmentQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared", appointmentQueue)

	eventPublisherInstance = &AMQPEventPublisher{conn: conn, channel: ch}
	return eventPublisherInstance, nil
}

// GetEventPublisher returns the current event publisher instance
func GetEventPublisher() EventPublisher {
	return eventPublisherInstance
}

// SetEventPublisher sets the event publisher instance (primarily for testing)
func SetEventPublisher(p EventPublisher) {
	eventPublisherInstance = p
}

// AMQPEventPublisher publishes events to RabbitMQ.
type AMQPEventPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// PublishAppointmentEvent publishes a lifecycle event as a persistent
// JSON message on the appointment queue.
func (p *AMQPEventPublisher) PublishAppointmentEvent(event AppointmentEvent) error {
	if p.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment event: %w", err)
	}

	err = p.channel.Publish(
		"",               // exchange: default exchange
		appointmentQueue, // routing key: the queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish appointment event: %w", err)
	}

	return nil
}

// Close closes the RabbitMQ connection and channel.
func (p *AMQPEventPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NoopEventPublisher discards events. Used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishAppointmentEvent(AppointmentEvent) error { return nil }
func (NoopEventPublisher) Close() error                                   { return nil }

// MockEventPublisher records events in memory for testing.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []AppointmentEvent
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// SetAsMockForTesting sets this mock as the global event publisher for testing
func (m *MockEventPublisher) SetAsMockForTesting() {
	SetEventPublisher(m)
}

// PublishAppointmentEvent records the event
func (m *MockEventPublisher) PublishAppointmentEvent(event AppointmentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Close is a no-op for the mock
func (m *MockEventPublisher) Close() error { return nil }

// Events returns a copy of all recorded events
func (m *MockEventPublisher) Events() []AppointmentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AppointmentEvent, len(m.events))
	copy(out, m.events)
	return out
}
