package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

// ======================================================
// GET AVAILABILITY
// ======================================================

type GetAvailability struct {
	resolver *schedule.Resolver
}

func NewGetAvailability(resolver *schedule.Resolver) *GetAvailability {
	return &GetAvailability{resolver: resolver}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	doctorID string,
	date string,
) (schedule.WorkingWindow, error) {
	return uc.resolver.Resolve(ctx, doctorID, date)
}

// ======================================================
// LIST SLOTS
// ======================================================

// ListSlots returns the generated slots for a date with occupied slots marked.
type ListSlots struct {
	resolver *schedule.Resolver
	ledger   *domain.Ledger
	metrics  *metrics.SchedulingMetrics
}

func NewListSlots(
	resolver *schedule.Resolver,
	ledger *domain.Ledger,
	m *metrics.SchedulingMetrics,
) *ListSlots {
	return &ListSlots{
		resolver: resolver,
		ledger:   ledger,
		metrics:  m,
	}
}

func (uc *ListSlots) Execute(
	ctx context.Context,
	doctorID string,
	date string,
) (out dto.SlotsDTO, err error) {
	defer func() { uc.metrics.ObserveRequest("list_slots", err) }()

	_, slots, err := uc.resolver.Plan(ctx, doctorID, date)
	if err != nil {
		return dto.SlotsDTO{}, err
	}
	uc.metrics.ObserveGeneratedSlots(len(slots))

	appointments, err := uc.ledger.ListByDoctor(ctx, doctorID)
	if err != nil {
		return dto.SlotsDTO{}, err
	}

	for i := range slots {
		for _, ap := range appointments {
			if ap.Occupies(date, slots[i].Start) {
				slots[i].Occupied = true
				break
			}
		}
	}

	return dto.SlotsDTO{Date: date, Slots: slots}, nil
}
