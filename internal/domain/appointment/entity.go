package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

type Appointment struct {
	ID             string             `json:"id"`
	DoctorID       string             `json:"doctorId"`
	PatientID      string             `json:"patientId"`
	Date           string             `json:"date"`
	Time           schedule.ClockTime `json:"time"`
	Status         Status             `json:"status"`
	RescheduleNote *string            `json:"rescheduleNote,omitempty"`
	Concern        string             `json:"concern,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`

	// Version starts at 1 and grows by one on every change. Stores use it
	// to write only the rows a mutation touched.
	Version int `json:"version"`
}

// Occupies reports whether ap holds the (date, time) slot.
func (ap Appointment) Occupies(date string, at schedule.ClockTime) bool {
	return ap.Status.Active() && ap.Date == date && ap.Time == at
}

// ===============================
// Domain Actions
// ===============================

func Reschedule(
	ap *Appointment,
	date string,
	at schedule.ClockTime,
	note string,
	now time.Time,
) error {
	if err := CanReschedule(ap.Status); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(note)
	ap.Date = date
	ap.Time = at
	ap.RescheduleNote = &trimmed
	ap.Status = StatusPending
	ap.UpdatedAt = now
	ap.Version++
	return nil
}

func SetStatus(ap *Appointment, next Status, now time.Time) error {
	if err := CanTransition(ap.Status, next); err != nil {
		return err
	}

	ap.Status = next
	ap.UpdatedAt = now
	ap.Version++
	return nil
}
