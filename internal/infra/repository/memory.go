package repository

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

var (
	_ schedule.Store    = (*MemoryStore)(nil)
	_ appointment.Store = (*MemoryStore)(nil)
	_ review.Store      = (*MemoryStore)(nil)
)

// MemoryStore keeps everything in process memory. Values are copied on the
// way in and on the way out so callers never share state with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	schedules map[string]schedule.Config
	ledgers   map[string][]appointment.Appointment
	index     map[string]string
	reviews   map[string][]review.Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schedules: make(map[string]schedule.Config),
		ledgers:   make(map[string][]appointment.Appointment),
		index:     make(map[string]string),
		reviews:   make(map[string][]review.Review),
	}
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (s *MemoryStore) LoadSchedule(_ context.Context, doctorID string) (schedule.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.schedules[doctorID]
	if !ok {
		return schedule.Config{}, httperr.ErrNotFound("doctor_not_found")
	}
	return cfg.Clone(), nil
}

func (s *MemoryStore) SaveSchedule(_ context.Context, doctorID string, cfg schedule.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules[doctorID] = cfg.Clone()
	return nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *MemoryStore) LoadAppointments(_ context.Context, doctorID string) ([]appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAppointments(s.ledgers[doctorID]), nil
}

func (s *MemoryStore) SaveAppointments(_ context.Context, doctorID string, list []appointment.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledgers[doctorID] = cloneAppointments(list)
	for _, ap := range list {
		s.index[ap.ID] = doctorID
	}
	return nil
}

func (s *MemoryStore) LocateAppointment(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doctorID, ok := s.index[id]
	if !ok {
		return "", httperr.ErrNotFound("appointment_not_found")
	}
	return doctorID, nil
}

// --------------------------------------------------
// Reviews
// --------------------------------------------------

func (s *MemoryStore) ListReviews(_ context.Context, doctorID string) ([]review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]review.Review{}, s.reviews[doctorID]...), nil
}

func (s *MemoryStore) AddReview(_ context.Context, r review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews[r.DoctorID] = append(s.reviews[r.DoctorID], r)
	return nil
}

func cloneAppointments(list []appointment.Appointment) []appointment.Appointment {
	out := make([]appointment.Appointment, len(list))
	copy(out, list)
	for i := range out {
		if out[i].RescheduleNote != nil {
			note := *out[i].RescheduleNote
			out[i].RescheduleNote = &note
		}
	}
	return out
}
