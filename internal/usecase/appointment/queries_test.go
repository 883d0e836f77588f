package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	uc := NewGetAvailability(schedule.NewResolver(f.store))

	w, err := uc.Execute(context.Background(), doctorA, wednesday)
	require.NoError(t, err)
	assert.True(t, w.IsWorking)

	_, err = uc.Execute(context.Background(), doctorA, "not-a-date")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestListSlotsMarksOccupied(t *testing.T) {
	f := newFixture(t)
	f.book(t, wednesday, "09:45")
	rejected := f.book(t, wednesday, "10:30")
	_, err := f.coord.SetStatus(context.Background(), SetStatusInput{AppointmentID: rejected.ID, Status: "rejected"})
	require.NoError(t, err)

	uc := NewListSlots(schedule.NewResolver(f.store), f.ledger, nil)
	out, err := uc.Execute(context.Background(), doctorA, wednesday)
	require.NoError(t, err)

	require.Len(t, out.Slots, 11)
	assert.False(t, out.Slots[0].Occupied)
	assert.True(t, out.Slots[1].Occupied)
	assert.False(t, out.Slots[2].Occupied, "rejected appointments do not hold slots")
}

func TestDayScheduleReportsOffGridAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, wednesday, "09:00")
	offGrid := f.book(t, wednesday, "09:45")
	f.book(t, thursday, "09:00")

	// switching to hourly consultations leaves 09:45 off the grid
	cfg := schedule.DefaultConfig()
	cfg.Policy = schedule.ConsultationPolicy{DurationMinutes: 60}
	require.NoError(t, f.store.SaveSchedule(ctx, doctorA, cfg))

	uc := NewGetDaySchedule(schedule.NewResolver(f.store), f.ledger)
	day, err := uc.Execute(ctx, doctorA, wednesday)
	require.NoError(t, err)

	assert.Len(t, day.Appointments, 2)
	require.Len(t, day.Slots, 8)
	require.NotNil(t, day.Slots[0].Appointment)
	assert.True(t, day.Slots[0].Occupied)
	require.Len(t, day.OffGrid, 1)
	assert.Equal(t, offGrid.ID, day.OffGrid[0].ID)
}

func TestListAppointmentsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, thursday, "09:00")
	f.book(t, wednesday, "09:45")
	f.book(t, wednesday, "09:00")
	_, err := f.coord.SetStatus(ctx, SetStatusInput{AppointmentID: a.ID, Status: "confirmed"})
	require.NoError(t, err)

	uc := NewListAppointments(f.ledger)

	all, err := uc.Execute(ctx, doctorA, ListAppointmentsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, wednesday, all[0].Date)
	assert.Equal(t, schedule.MustClock("09:00"), all[0].Time)

	byDate, err := uc.Execute(ctx, doctorA, ListAppointmentsFilter{Date: wednesday})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	confirmed, err := uc.Execute(ctx, doctorA, ListAppointmentsFilter{Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, domain.StatusConfirmed, confirmed[0].Status)

	_, err = uc.Execute(ctx, doctorA, ListAppointmentsFilter{Status: "done"})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestGetAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, wednesday, "09:00")

	got, err := NewGetAppointment(f.ledger).Execute(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, got.ID)
}
