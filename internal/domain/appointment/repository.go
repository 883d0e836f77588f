package appointment

import (
	"context"
)

// Store persists each doctor's ledger. SaveAppointments receives the whole
// sequence and is atomic: either every change is written or none. Row-based
// stores write only records whose Version is newer than the stored one and
// fail with ErrConflict("concurrent_update") when a record skips a version.
type Store interface {
	// -------- Ledger --------
	LoadAppointments(
		ctx context.Context,
		doctorID string,
	) ([]Appointment, error)

	SaveAppointments(
		ctx context.Context,
		doctorID string,
		appointments []Appointment,
	) error

	// -------- Lookup --------
	// LocateAppointment returns the doctor owning appointmentID, or
	// ErrNotFound("appointment_not_found").
	LocateAppointment(
		ctx context.Context,
		appointmentID string,
	) (string, error)
}
