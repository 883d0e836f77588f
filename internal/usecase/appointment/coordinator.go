package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

var tracer = otel.Tracer("clinic-scheduler/scheduling")

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	DoctorID  string
	PatientID string
	ActorID   string
	Date      string
	Time      string
	Concern   string
}

type RescheduleInput struct {
	AppointmentID string
	ActorID       string
	Date          string
	Time          string
	Note          string
}

type SetStatusInput struct {
	AppointmentID string
	ActorID       string
	Status        string
}

// ======================================================
// COORDINATOR
// ======================================================

// Coordinator is the single entry point for appointment mutations. A request
// is first checked against the doctor's generated slots for the date, then
// committed through the ledger. Ledger conflicts are returned as they are.
type Coordinator struct {
	resolver  *schedule.Resolver
	ledger    *domain.Ledger
	audit     *audit.Dispatcher
	publisher events.Publisher
	metrics   *metrics.SchedulingMetrics
	log       zerolog.Logger

	minAdvance time.Duration
	timezone   string
	now        func() time.Time
}

type Option func(*Coordinator)

// WithMinAdvance rejects slots starting sooner than d from now, in the clinic
// timezone tz. Slots already in the past are rejected even when d is zero.
func WithMinAdvance(d time.Duration, tz string) Option {
	return func(c *Coordinator) {
		c.minAdvance = d
		c.timezone = tz
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

func NewCoordinator(
	resolver *schedule.Resolver,
	ledger *domain.Ledger,
	audit *audit.Dispatcher,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		resolver:  resolver,
		ledger:    ledger,
		audit:     audit,
		publisher: events.NopPublisher{},
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ======================================================
// BOOK
// ======================================================

func (c *Coordinator) Book(ctx context.Context, in BookInput) (ap domain.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "scheduling.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("doctor.id", in.DoctorID),
		attribute.String("slot.date", in.Date),
		attribute.String("slot.time", in.Time),
	)
	defer func() {
		c.metrics.ObserveRequest("book", err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	date, at, err := parseSlot(in.Date, in.Time)
	if err != nil {
		return domain.Appointment{}, err
	}

	// --------------------------------------------------
	// Phase 1: the time must be a generated slot start
	// --------------------------------------------------
	if err := c.verifySlot(ctx, in.DoctorID, in.Date, at); err != nil {
		return domain.Appointment{}, err
	}
	if err := c.checkLeadTime(date, at); err != nil {
		return domain.Appointment{}, err
	}

	// --------------------------------------------------
	// Phase 2: commit
	// --------------------------------------------------
	ap, err = c.ledger.Create(ctx, domain.Appointment{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		Date:      in.Date,
		Time:      at,
		Concern:   in.Concern,
	})
	if err != nil {
		c.auditConflict(err, in.DoctorID, in.ActorID, in.Date, at)
		return domain.Appointment{}, err
	}

	c.audit.Dispatch(audit.Event{
		DoctorID: ap.DoctorID,
		ActorID:  in.ActorID,
		Action:   audit.ActionAppointmentBooked,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"date": ap.Date, "time": ap.Time.String()},
	})
	c.publish(ctx, events.TypeAppointmentBooked, eventFor(ap))

	c.log.Info().
		Str("doctor_id", ap.DoctorID).
		Str("appointment_id", ap.ID).
		Str("date", ap.Date).
		Str("time", ap.Time.String()).
		Msg("appointment booked")

	return ap, nil
}

// ======================================================
// RESCHEDULE
// ======================================================

func (c *Coordinator) Reschedule(ctx context.Context, in RescheduleInput) (ap domain.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "scheduling.reschedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", in.AppointmentID),
		attribute.String("slot.date", in.Date),
		attribute.String("slot.time", in.Time),
	)
	defer func() {
		c.metrics.ObserveRequest("reschedule", err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	date, at, err := parseSlot(in.Date, in.Time)
	if err != nil {
		return domain.Appointment{}, err
	}

	current, err := c.ledger.Get(ctx, in.AppointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if err := domain.CanReschedule(current.Status); err != nil {
		return domain.Appointment{}, err
	}

	if err := c.verifySlot(ctx, current.DoctorID, in.Date, at); err != nil {
		return domain.Appointment{}, err
	}
	if err := c.checkLeadTime(date, at); err != nil {
		return domain.Appointment{}, err
	}

	before, after, err := c.ledger.Reschedule(ctx, in.AppointmentID, in.Date, at, in.Note)
	if err != nil {
		c.auditConflict(err, current.DoctorID, in.ActorID, in.Date, at)
		return domain.Appointment{}, err
	}

	c.audit.Dispatch(audit.Event{
		DoctorID: after.DoctorID,
		ActorID:  in.ActorID,
		Action:   audit.ActionAppointmentRescheduled,
		Entity:   "appointment",
		EntityID: after.ID,
		Metadata: map[string]string{
			"from": before.Date + " " + before.Time.String(),
			"to":   after.Date + " " + after.Time.String(),
		},
	})

	ev := eventFor(after)
	ev.PreviousDate = before.Date
	ev.PreviousTime = before.Time.String()
	ev.PreviousStatus = string(before.Status)
	if after.RescheduleNote != nil {
		ev.Note = *after.RescheduleNote
	}
	c.publish(ctx, events.TypeAppointmentRescheduled, ev)

	return after, nil
}

// ======================================================
// STATUS
// ======================================================

func (c *Coordinator) SetStatus(ctx context.Context, in SetStatusInput) (ap domain.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "scheduling.set_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", in.AppointmentID),
		attribute.String("appointment.status", in.Status),
	)
	defer func() {
		c.metrics.ObserveRequest("set_status", err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	next, err := domain.ParseStatus(in.Status)
	if err != nil {
		return domain.Appointment{}, err
	}

	ap, previous, err := c.ledger.SetStatus(ctx, in.AppointmentID, next)
	if err != nil {
		return domain.Appointment{}, err
	}

	c.audit.Dispatch(audit.Event{
		DoctorID: ap.DoctorID,
		ActorID:  in.ActorID,
		Action:   audit.ActionAppointmentStatusChanged,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"from": string(previous), "to": string(ap.Status)},
	})

	ev := eventFor(ap)
	ev.PreviousStatus = string(previous)
	c.publish(ctx, events.TypeAppointmentStatusChanged, ev)

	return ap, nil
}

// ======================================================
// HELPERS
// ======================================================

func parseSlot(date, at string) (time.Time, schedule.ClockTime, error) {
	d, err := schedule.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, err
	}
	t, err := schedule.ParseClock(at)
	if err != nil {
		return time.Time{}, 0, err
	}
	return d, t, nil
}

func (c *Coordinator) verifySlot(
	ctx context.Context,
	doctorID string,
	date string,
	at schedule.ClockTime,
) error {

	_, slots, err := c.resolver.Plan(ctx, doctorID, date)
	if err != nil {
		return err
	}
	c.metrics.ObserveGeneratedSlots(len(slots))

	if schedule.FindSlot(slots, at) < 0 {
		return httperr.ErrInvalidInput("not_a_consultation_slot")
	}
	return nil
}

func (c *Coordinator) checkLeadTime(date time.Time, at schedule.ClockTime) error {
	loc := timezone.Location(c.timezone)
	start := at.On(date, loc)
	if start.Before(c.now().In(loc).Add(max(c.minAdvance, 0))) {
		return httperr.ErrInvalidInput("too_soon")
	}
	return nil
}

func (c *Coordinator) auditConflict(
	err error,
	doctorID string,
	actorID string,
	date string,
	at schedule.ClockTime,
) {
	if !httperr.IsKind(err, httperr.KindConflict) {
		return
	}
	c.audit.Dispatch(audit.Event{
		DoctorID: doctorID,
		ActorID:  actorID,
		Action:   audit.ActionAppointmentConflict,
		Entity:   "slot",
		EntityID: date + " " + at.String(),
	})
}

// publish never fails the request: the ledger is already committed.
func (c *Coordinator) publish(ctx context.Context, eventType string, ev events.AppointmentEvent) {
	if err := c.publisher.Publish(ctx, eventType, ev); err != nil {
		c.log.Warn().Err(err).
			Str("event_type", eventType).
			Str("appointment_id", ev.AppointmentID).
			Msg("event publish failed")
	}
}

func eventFor(ap domain.Appointment) events.AppointmentEvent {
	return events.AppointmentEvent{
		AppointmentID: ap.ID,
		DoctorID:      ap.DoctorID,
		PatientID:     ap.PatientID,
		Date:          ap.Date,
		Time:          ap.Time.String(),
		Status:        string(ap.Status),
	}
}
