package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
)

type GetDaySchedule struct {
	resolver *schedule.Resolver
	ledger   *domain.Ledger
}

func NewGetDaySchedule(
	resolver *schedule.Resolver,
	ledger *domain.Ledger,
) *GetDaySchedule {
	return &GetDaySchedule{
		resolver: resolver,
		ledger:   ledger,
	}
}

func (uc *GetDaySchedule) Execute(
	ctx context.Context,
	doctorID string,
	date string,
) (dto.DayScheduleDTO, error) {

	window, slots, err := uc.resolver.Plan(ctx, doctorID, date)
	if err != nil {
		return dto.DayScheduleDTO{}, err
	}

	all, err := uc.ledger.ListByDoctor(ctx, doctorID)
	if err != nil {
		return dto.DayScheduleDTO{}, err
	}

	// ListByDoctor is sorted by date then time
	day := make([]domain.Appointment, 0)
	for _, ap := range all {
		if ap.Date == date {
			day = append(day, ap)
		}
	}

	out := dto.DayScheduleDTO{
		Date:         date,
		Window:       window,
		Slots:        make([]dto.DaySlotDTO, 0, len(slots)),
		OffGrid:      make([]domain.Appointment, 0),
		Appointments: day,
	}

	onGrid := make(map[string]bool, len(day))
	for _, s := range slots {
		row := dto.DaySlotDTO{Start: s.Start, End: s.End}
		for i := range day {
			if day[i].Occupies(date, s.Start) {
				ap := day[i]
				row.Occupied = true
				row.Appointment = &ap
				onGrid[ap.ID] = true
				break
			}
		}
		out.Slots = append(out.Slots, row)
	}

	for _, ap := range day {
		if ap.Status.Active() && !onGrid[ap.ID] {
			out.OffGrid = append(out.OffGrid, ap)
		}
	}

	return out, nil
}
