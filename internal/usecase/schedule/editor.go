package schedule

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/lock"
)

// Editor applies a doctor's schedule edits. Edits of one doctor are
// serialized so concurrent changes never overwrite each other.
type Editor struct {
	store  domain.Store
	locker lock.Locker
	audit  *audit.Dispatcher
}

func NewEditor(
	store domain.Store,
	locker lock.Locker,
	audit *audit.Dispatcher,
) *Editor {
	return &Editor{
		store:  store,
		locker: locker,
		audit:  audit,
	}
}

func scheduleKey(doctorID string) string {
	return "schedule:" + doctorID
}

// Register seeds the default schedule for a new doctor. Registering an
// existing doctor returns the stored schedule and created=false.
func (e *Editor) Register(ctx context.Context, doctorID, actorID string) (domain.Config, bool, error) {
	unlock, err := e.locker.Lock(ctx, scheduleKey(doctorID))
	if err != nil {
		return domain.Config{}, false, fmt.Errorf("schedule: lock: %w", err)
	}
	defer unlock()

	existing, err := e.store.LoadSchedule(ctx, doctorID)
	if err == nil {
		return existing, false, nil
	}
	if !httperr.IsBusiness(err, "doctor_not_found") {
		return domain.Config{}, false, err
	}

	cfg := domain.DefaultConfig()
	if err := e.store.SaveSchedule(ctx, doctorID, cfg); err != nil {
		return domain.Config{}, false, err
	}

	e.dispatch(doctorID, actorID, "register")
	return cfg, true, nil
}

func (e *Editor) Get(ctx context.Context, doctorID string) (domain.Config, error) {
	return e.store.LoadSchedule(ctx, doctorID)
}

func (e *Editor) UpdateTemplate(
	ctx context.Context,
	doctorID, actorID string,
	tpl domain.WeeklyTemplate,
) (domain.Config, error) {
	return e.edit(ctx, doctorID, actorID, "weekly_template", func(cfg *domain.Config) error {
		cfg.Template = tpl
		return nil
	})
}

func (e *Editor) UpdatePolicy(
	ctx context.Context,
	doctorID, actorID string,
	policy domain.ConsultationPolicy,
) (domain.Config, error) {
	return e.edit(ctx, doctorID, actorID, "consultation_policy", func(cfg *domain.Config) error {
		cfg.Policy = policy
		return nil
	})
}

func (e *Editor) SetOverride(
	ctx context.Context,
	doctorID, actorID, date string,
	rule domain.DayRule,
) (domain.Config, error) {
	return e.edit(ctx, doctorID, actorID, "set_override", func(cfg *domain.Config) error {
		if _, err := domain.ParseDate(date); err != nil {
			return err
		}
		cfg.Overrides[date] = rule
		return nil
	})
}

// MarkDayOff blocks a whole date with a non-working override.
func (e *Editor) MarkDayOff(ctx context.Context, doctorID, actorID, date string) (domain.Config, error) {
	return e.SetOverride(ctx, doctorID, actorID, date, domain.DayOff())
}

// RemoveOverride is idempotent: removing a missing override is not an error.
func (e *Editor) RemoveOverride(ctx context.Context, doctorID, actorID, date string) (domain.Config, error) {
	return e.edit(ctx, doctorID, actorID, "remove_override", func(cfg *domain.Config) error {
		if _, err := domain.ParseDate(date); err != nil {
			return err
		}
		delete(cfg.Overrides, date)
		return nil
	})
}

func (e *Editor) AddHoliday(ctx context.Context, doctorID, actorID, date string) (domain.Config, error) {
	return e.edit(ctx, doctorID, actorID, "add_holiday", func(cfg *domain.Config) error {
		if _, err := domain.ParseDate(date); err != nil {
			return err
		}
		cfg.Holidays[date] = struct{}{}
		return nil
	})
}

func (e *Editor) RemoveHoliday(ctx context.Context, doctorID, actorID, date string) (domain.Config, error) {
	return e.edit(ctx, doctorID, actorID, "remove_holiday", func(cfg *domain.Config) error {
		if _, err := domain.ParseDate(date); err != nil {
			return err
		}
		delete(cfg.Holidays, date)
		return nil
	})
}

// edit loads, changes, validates and saves under the doctor's schedule lock.
// Nothing is saved unless the whole resulting config is valid.
func (e *Editor) edit(
	ctx context.Context,
	doctorID, actorID, change string,
	fn func(cfg *domain.Config) error,
) (domain.Config, error) {

	unlock, err := e.locker.Lock(ctx, scheduleKey(doctorID))
	if err != nil {
		return domain.Config{}, fmt.Errorf("schedule: lock: %w", err)
	}
	defer unlock()

	cfg, err := e.store.LoadSchedule(ctx, doctorID)
	if err != nil {
		return domain.Config{}, err
	}

	if err := fn(&cfg); err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}

	if err := e.store.SaveSchedule(ctx, doctorID, cfg); err != nil {
		return domain.Config{}, err
	}

	e.dispatch(doctorID, actorID, change)
	return cfg, nil
}

func (e *Editor) dispatch(doctorID, actorID, change string) {
	e.audit.Dispatch(audit.Event{
		DoctorID: doctorID,
		ActorID:  actorID,
		Action:   audit.ActionScheduleUpdated,
		Entity:   "schedule",
		EntityID: doctorID,
		Metadata: map[string]string{"change": change},
	})
}
