package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

type ListAppointmentsFilter struct {
	Date   string
	Status string
}

type ListAppointments struct {
	ledger *domain.Ledger
}

func NewListAppointments(ledger *domain.Ledger) *ListAppointments {
	return &ListAppointments{ledger: ledger}
}

// Execute lists a doctor's appointments ordered by date then time. Empty
// filter fields match everything.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	doctorID string,
	filter ListAppointmentsFilter,
) ([]domain.Appointment, error) {

	if filter.Date != "" {
		if _, err := schedule.ParseDate(filter.Date); err != nil {
			return nil, err
		}
	}

	var status domain.Status
	if filter.Status != "" {
		st, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	all, err := uc.ledger.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(all))
	for _, ap := range all {
		if filter.Date != "" && ap.Date != filter.Date {
			continue
		}
		if status != "" && ap.Status != status {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

type GetAppointment struct {
	ledger *domain.Ledger
}

func NewGetAppointment(ledger *domain.Ledger) *GetAppointment {
	return &GetAppointment{ledger: ledger}
}

func (uc *GetAppointment) Execute(ctx context.Context, id string) (domain.Appointment, error) {
	return uc.ledger.Get(ctx, id)
}
