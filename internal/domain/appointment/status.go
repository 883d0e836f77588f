package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusRejected:
		return st, nil
	}
	return "", httperr.ErrInvalidInput("invalid_status")
}

// Active reports whether an appointment in this status holds its slot.
func (s Status) Active() bool {
	return s != StatusRejected
}

// ===============================
// Validations
// ===============================

// CanReschedule: rejected is terminal.
func CanReschedule(current Status) error {
	if current == StatusRejected {
		return httperr.ErrInvalidInput("appointment_rejected")
	}
	return nil
}

// CanTransition allows the doctor's decisions on a pending request only.
// Going back to pending happens through a reschedule, never directly.
func CanTransition(current, next Status) error {
	if current == StatusPending && (next == StatusConfirmed || next == StatusRejected) {
		return nil
	}
	return httperr.ErrInvalidInput("invalid_status_transition")
}

func InitialStatus() Status {
	return StatusPending
}
