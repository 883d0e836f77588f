package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/lock"
)

// Ledger is the authoritative set of appointments per doctor. Every mutation
// runs load, check, save under the doctor's lock, so two requests for the
// same slot are serialized and only the first one wins.
type Ledger struct {
	store  Store
	locker lock.Locker
	now    func() time.Time
	newID  func() string
}

func NewLedger(store Store, locker lock.Locker) *Ledger {
	return &Ledger{
		store:  store,
		locker: locker,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

func doctorKey(doctorID string) string {
	return "doctor:" + doctorID
}

// ===============================
// Reads
// ===============================

// ListByDoctor returns the ledger ordered by date then time.
func (l *Ledger) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	list, err := l.store.LoadAppointments(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	SortByDateTime(list)
	return list, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (Appointment, error) {
	doctorID, err := l.store.LocateAppointment(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	list, err := l.store.LoadAppointments(ctx, doctorID)
	if err != nil {
		return Appointment{}, err
	}

	i := indexOf(list, id)
	if i < 0 {
		return Appointment{}, httperr.ErrNotFound("appointment_not_found")
	}
	return list[i], nil
}

// ===============================
// Mutations
// ===============================

// Create assigns an id, the initial status and timestamps, then appends ap to
// its doctor's ledger unless an active appointment already holds the slot.
func (l *Ledger) Create(ctx context.Context, ap Appointment) (Appointment, error) {
	unlock, err := l.locker.Lock(ctx, doctorKey(ap.DoctorID))
	if err != nil {
		return Appointment{}, fmt.Errorf("ledger: lock: %w", err)
	}
	defer unlock()

	list, err := l.load(ctx, ap.DoctorID)
	if err != nil {
		return Appointment{}, err
	}

	if holder := slotHolder(list, ap.Date, ap.Time); holder >= 0 {
		return Appointment{}, httperr.ErrConflict("slot_taken")
	}

	now := l.now()
	ap.ID = l.newID()
	ap.Status = InitialStatus()
	ap.RescheduleNote = nil
	ap.CreatedAt = now
	ap.UpdatedAt = now
	ap.Version = 1

	if err := l.store.SaveAppointments(ctx, ap.DoctorID, append(list, ap)); err != nil {
		return Appointment{}, err
	}
	return ap, nil
}

// Reschedule moves appointment id to (date, at). It returns the appointment
// as it was before the move and as it is after.
func (l *Ledger) Reschedule(
	ctx context.Context,
	id string,
	date string,
	at schedule.ClockTime,
	note string,
) (Appointment, Appointment, error) {

	var before, after Appointment
	err := l.mutate(ctx, id, func(list []Appointment, i int) error {
		before = list[i]

		if err := CanReschedule(list[i].Status); err != nil {
			return err
		}
		if holder := slotHolder(list, date, at); holder >= 0 && holder != i {
			return httperr.ErrConflict("slot_taken")
		}
		if err := Reschedule(&list[i], date, at, note, l.now()); err != nil {
			return err
		}

		after = list[i]
		return nil
	})
	if err != nil {
		return Appointment{}, Appointment{}, err
	}
	return before, after, nil
}

// SetStatus returns the appointment with its new status and the previous status.
func (l *Ledger) SetStatus(ctx context.Context, id string, next Status) (Appointment, Status, error) {
	var (
		previous Status
		updated  Appointment
	)
	err := l.mutate(ctx, id, func(list []Appointment, i int) error {
		previous = list[i].Status
		if err := SetStatus(&list[i], next, l.now()); err != nil {
			return err
		}
		updated = list[i]
		return nil
	})
	if err != nil {
		return Appointment{}, "", err
	}
	return updated, previous, nil
}

// mutate locates id, locks its doctor and applies fn to a fresh copy of the
// ledger. The copy is saved only if fn succeeds.
func (l *Ledger) mutate(
	ctx context.Context,
	id string,
	fn func(list []Appointment, i int) error,
) error {

	doctorID, err := l.store.LocateAppointment(ctx, id)
	if err != nil {
		return err
	}

	unlock, err := l.locker.Lock(ctx, doctorKey(doctorID))
	if err != nil {
		return fmt.Errorf("ledger: lock: %w", err)
	}
	defer unlock()

	list, err := l.load(ctx, doctorID)
	if err != nil {
		return err
	}

	i := indexOf(list, id)
	if i < 0 {
		return httperr.ErrNotFound("appointment_not_found")
	}

	if err := fn(list, i); err != nil {
		return err
	}
	return l.store.SaveAppointments(ctx, doctorID, list)
}

func (l *Ledger) load(ctx context.Context, doctorID string) ([]Appointment, error) {
	list, err := l.store.LoadAppointments(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := CheckUniqueSlots(list); err != nil {
		return nil, err
	}
	return list, nil
}

// ===============================
// Helpers
// ===============================

// CheckUniqueSlots fails when two active appointments share a slot.
func CheckUniqueSlots(list []Appointment) error {
	seen := make(map[string]struct{}, len(list))
	for _, ap := range list {
		if !ap.Status.Active() {
			continue
		}
		key := ap.Date + " " + ap.Time.String()
		if _, dup := seen[key]; dup {
			return httperr.ErrInvariant("ledger_duplicate_slot")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func SortByDateTime(list []Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return list[i].Time < list[j].Time
	})
}

func slotHolder(list []Appointment, date string, at schedule.ClockTime) int {
	for i, ap := range list {
		if ap.Occupies(date, at) {
			return i
		}
	}
	return -1
}

func indexOf(list []Appointment, id string) int {
	for i, ap := range list {
		if ap.ID == id {
			return i
		}
	}
	return -1
}
