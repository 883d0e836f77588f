package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

var (
	_ schedule.Store    = (*RedisStore)(nil)
	_ appointment.Store = (*RedisStore)(nil)
	_ review.Store      = (*RedisStore)(nil)
)

const appointmentIndexKey = "clinic:appointment-index"

func scheduleKey(doctorID string) string     { return "clinic:schedule:" + doctorID }
func appointmentsKey(doctorID string) string { return "clinic:appointments:" + doctorID }
func reviewsKey(doctorID string) string      { return "clinic:reviews:" + doctorID }

// RedisStore keeps one JSON document per doctor schedule and one JSON array
// per doctor ledger, mirroring a plain key-value layout.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (s *RedisStore) LoadSchedule(ctx context.Context, doctorID string) (schedule.Config, error) {
	raw, err := s.client.Get(ctx, scheduleKey(doctorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return schedule.Config{}, httperr.ErrNotFound("doctor_not_found")
	}
	if err != nil {
		return schedule.Config{}, fmt.Errorf("redis: load schedule: %w", err)
	}

	// same parse-or-default rules as the row-based store
	return decodeScheduleDocument(raw).build(), nil
}

func (s *RedisStore) SaveSchedule(ctx context.Context, doctorID string, cfg schedule.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("redis: encode schedule: %w", err)
	}
	if err := s.client.Set(ctx, scheduleKey(doctorID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis: save schedule: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *RedisStore) LoadAppointments(ctx context.Context, doctorID string) ([]appointment.Appointment, error) {
	raw, err := s.client.Get(ctx, appointmentsKey(doctorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []appointment.Appointment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load appointments: %w", err)
	}

	var list []appointment.Appointment
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("redis: decode appointments %s: %w", doctorID, err)
	}
	return list, nil
}

// SaveAppointments writes the ledger and its id index in one MULTI/EXEC.
func (s *RedisStore) SaveAppointments(ctx context.Context, doctorID string, list []appointment.Appointment) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("redis: encode appointments: %w", err)
	}

	index := make(map[string]interface{}, len(list))
	for _, ap := range list {
		index[ap.ID] = doctorID
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, appointmentsKey(doctorID), raw, 0)
		if len(index) > 0 {
			pipe.HSet(ctx, appointmentIndexKey, index)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save appointments: %w", err)
	}
	return nil
}

func (s *RedisStore) LocateAppointment(ctx context.Context, id string) (string, error) {
	doctorID, err := s.client.HGet(ctx, appointmentIndexKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return "", httperr.ErrNotFound("appointment_not_found")
	}
	if err != nil {
		return "", fmt.Errorf("redis: locate appointment: %w", err)
	}
	return doctorID, nil
}

// --------------------------------------------------
// Reviews
// --------------------------------------------------

func (s *RedisStore) ListReviews(ctx context.Context, doctorID string) ([]review.Review, error) {
	items, err := s.client.LRange(ctx, reviewsKey(doctorID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list reviews: %w", err)
	}

	out := make([]review.Review, 0, len(items))
	for _, item := range items {
		var r review.Review
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("redis: decode review: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisStore) AddReview(ctx context.Context, r review.Review) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("redis: encode review: %w", err)
	}
	if err := s.client.RPush(ctx, reviewsKey(r.DoctorID), raw).Err(); err != nil {
		return fmt.Errorf("redis: add review: %w", err)
	}
	return nil
}
