package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	ActionAppointmentBooked        = "appointment_booked"
	ActionAppointmentRescheduled   = "appointment_rescheduled"
	ActionAppointmentStatusChanged = "appointment_status_changed"
	ActionAppointmentConflict      = "appointment_conflict"
	ActionScheduleUpdated          = "schedule_updated"
	ActionReviewSubmitted          = "review_submitted"
)

type Event struct {
	DoctorID string
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink persists one audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher hands events to a single background worker. It never blocks the
// caller: when the queue is full the event is dropped and logged.
type Dispatcher struct {
	sink  Sink
	log   zerolog.Logger
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error().Err(err).
				Str("action", ev.Action).
				Str("doctor_id", ev.DoctorID).
				Msg("audit write failed")
		}
	}
}

// Dispatch is safe on a nil Dispatcher, which discards everything.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Str("action", ev.Action).
			Str("doctor_id", ev.DoctorID).
			Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain. Dispatch must
// not be called after Close.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() { close(d.queue) })
	<-d.done
}
