package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func sampleAppointment(id, date, at string) appointment.Appointment {
	note := "moved"
	return appointment.Appointment{
		ID:             id,
		DoctorID:       "doc-a",
		PatientID:      "pat-1",
		Date:           date,
		Time:           schedule.MustClock(at),
		Status:         appointment.StatusPending,
		RescheduleNote: &note,
	}
}

func TestMemoryStoreSchedule(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.LoadSchedule(ctx, "doc-a")
	assert.True(t, httperr.IsBusiness(err, "doctor_not_found"))

	cfg := schedule.DefaultConfig()
	require.NoError(t, s.SaveSchedule(ctx, "doc-a", cfg))

	// mutations by the caller do not leak into the store
	cfg.Holidays["2026-12-25"] = struct{}{}
	got, err := s.LoadSchedule(ctx, "doc-a")
	require.NoError(t, err)
	assert.False(t, got.Holidays.Contains("2026-12-25"))

	got.Overrides["2026-02-18"] = schedule.DayOff()
	again, err := s.LoadSchedule(ctx, "doc-a")
	require.NoError(t, err)
	assert.Empty(t, again.Overrides)
}

func TestMemoryStoreAppointments(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	list, err := s.LoadAppointments(ctx, "doc-a")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.LocateAppointment(ctx, "ap-1")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	in := []appointment.Appointment{sampleAppointment("ap-1", "2026-02-18", "09:00")}
	require.NoError(t, s.SaveAppointments(ctx, "doc-a", in))

	*in[0].RescheduleNote = "changed"
	in[0].Date = "2030-01-01"

	list, err = s.LoadAppointments(ctx, "doc-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2026-02-18", list[0].Date)
	assert.Equal(t, "moved", *list[0].RescheduleNote)

	doctorID, err := s.LocateAppointment(ctx, "ap-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-a", doctorID)
}

func TestMemoryStoreReviews(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.AddReview(ctx, review.Review{ID: "r1", DoctorID: "doc-a", Rating: 5}))
	require.NoError(t, s.AddReview(ctx, review.Review{ID: "r2", DoctorID: "doc-a", Rating: 3}))
	require.NoError(t, s.AddReview(ctx, review.Review{ID: "r3", DoctorID: "doc-b", Rating: 1}))

	list, err := s.ListReviews(ctx, "doc-a")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
