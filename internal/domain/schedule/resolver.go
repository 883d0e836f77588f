package schedule

import (
	"context"
)

// ===============================
// Working window
// ===============================

// WorkingWindow is the effective availability of one doctor on one date.
// It is derived on demand and never persisted.
type WorkingWindow struct {
	IsWorking bool      `json:"isWorking"`
	Start     ClockTime `json:"start"`
	End       ClockTime `json:"end"`
}

func windowFrom(r DayRule) WorkingWindow {
	return WorkingWindow{IsWorking: r.IsWorking, Start: r.Start, End: r.End}
}

// Hours is the length of a working window; zero when not working.
func (w WorkingWindow) Hours() float64 {
	if !w.IsWorking || w.Start >= w.End {
		return 0
	}
	return (w.End - w.Start).Hours()
}

// Resolve applies holiday > date override > weekly template for date.
func Resolve(cfg Config, date string) (WorkingWindow, error) {
	d, err := ParseDate(date)
	if err != nil {
		return WorkingWindow{}, err
	}

	if cfg.Holidays.Contains(date) {
		return WorkingWindow{IsWorking: false}, nil
	}
	if o, ok := cfg.Overrides[date]; ok {
		return windowFrom(o), nil
	}
	return windowFrom(cfg.Template.Day(WeekdayOf(d))), nil
}

// ===============================
// Store
// ===============================

type Store interface {
	// LoadSchedule returns the doctor's configuration or
	// ErrNotFound("doctor_not_found") when none was ever saved.
	LoadSchedule(ctx context.Context, doctorID string) (Config, error)

	SaveSchedule(ctx context.Context, doctorID string, cfg Config) error
}

// ===============================
// Resolver
// ===============================

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve validates date before touching the store.
func (r *Resolver) Resolve(
	ctx context.Context,
	doctorID string,
	date string,
) (WorkingWindow, error) {

	if _, err := ParseDate(date); err != nil {
		return WorkingWindow{}, err
	}

	cfg, err := r.store.LoadSchedule(ctx, doctorID)
	if err != nil {
		return WorkingWindow{}, err
	}

	return Resolve(cfg, date)
}

// Plan resolves date and generates its consultation slots from a single
// snapshot of the doctor's configuration.
func (r *Resolver) Plan(
	ctx context.Context,
	doctorID string,
	date string,
) (WorkingWindow, []TimeSlot, error) {

	if _, err := ParseDate(date); err != nil {
		return WorkingWindow{}, nil, err
	}

	cfg, err := r.store.LoadSchedule(ctx, doctorID)
	if err != nil {
		return WorkingWindow{}, nil, err
	}

	window, err := Resolve(cfg, date)
	if err != nil {
		return WorkingWindow{}, nil, err
	}

	slots, err := GenerateSlots(window, cfg.Policy)
	if err != nil {
		return WorkingWindow{}, nil, err
	}

	return window, slots, nil
}
