package dto

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

type SlotsDTO struct {
	Date  string              `json:"date"`
	Slots []schedule.TimeSlot `json:"slots"`
}

type DaySlotDTO struct {
	Start       schedule.ClockTime       `json:"start"`
	End         schedule.ClockTime       `json:"end"`
	Occupied    bool                     `json:"occupied"`
	Appointment *appointment.Appointment `json:"appointment,omitempty"`
}

// DayScheduleDTO is the doctor's timeline for one date. OffGrid holds active
// appointments whose time is no longer a slot start, e.g. after the policy
// or the working hours changed.
type DayScheduleDTO struct {
	Date         string                    `json:"date"`
	Window       schedule.WorkingWindow    `json:"window"`
	Slots        []DaySlotDTO              `json:"slots"`
	OffGrid      []appointment.Appointment `json:"offGrid"`
	Appointments []appointment.Appointment `json:"appointments"`
}
