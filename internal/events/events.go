// Package events publishes appointment lifecycle events for the external
// notification service.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeAppointmentBooked        = "appointment.booked"
	TypeAppointmentRescheduled   = "appointment.rescheduled"
	TypeAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent is the payload shared by every appointment event.
type AppointmentEvent struct {
	AppointmentID  string `json:"appointmentId"`
	DoctorID       string `json:"doctorId"`
	PatientID      string `json:"patientId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Status         string `json:"status"`
	PreviousDate   string `json:"previousDate,omitempty"`
	PreviousTime   string `json:"previousTime,omitempty"`
	PreviousStatus string `json:"previousStatus,omitempty"`
	Note           string `json:"note,omitempty"`
}

// Envelope carries transport metadata around a payload.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

var nowFunc = time.Now

func Encode(eventType string, payload any) ([]byte, error) {
	if eventType == "" {
		return nil, fmt.Errorf("events: event type missing")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		EventID:    uuid.New(),
		EventType:  eventType,
		OccurredAt: nowFunc().UTC(),
		Payload:    raw,
	})
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
