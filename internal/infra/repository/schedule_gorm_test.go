package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestScheduleGormLoadUnknownDoctor(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewScheduleGormRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.LoadSchedule(context.Background(), "ghost")
	assert.True(t, httperr.IsBusiness(err, "doctor_not_found"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleGormLoadMergesRowsOverDefaults(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewScheduleGormRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "consultation_minutes", "break_minutes"}).
			AddRow("doc-a", 20, 5))

	mock.ExpectQuery(`SELECT \* FROM "weekly_hours"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "weekday", "start_time", "end_time", "is_working"}).
			AddRow(1, "doc-a", 0, "08:00", "12:00", true).
			AddRow(2, "doc-a", 5, "10:00", "14:00", true).
			AddRow(3, "doc-a", 2, "garbage", "12:00", true))

	mock.ExpectQuery(`SELECT \* FROM "date_overrides"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "date", "start_time", "end_time", "is_working"}).
			AddRow(1, "doc-a", "2026-02-18", "00:00", "00:00", false))

	mock.ExpectQuery(`SELECT \* FROM "holidays"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "date"}).
			AddRow(1, "doc-a", "2026-12-25"))

	cfg, err := repo.LoadSchedule(context.Background(), "doc-a")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, schedule.ConsultationPolicy{DurationMinutes: 20, BreakMinutes: 5}, cfg.Policy)
	assert.Equal(t, schedule.MustClock("08:00"), cfg.Template.Day(schedule.Monday).Start)
	assert.True(t, cfg.Template.Day(schedule.Saturday).IsWorking)
	// unreadable row keeps the default
	assert.Equal(t, schedule.DefaultTemplate().Day(schedule.Wednesday), cfg.Template.Day(schedule.Wednesday))
	assert.Equal(t, schedule.DayOff(), cfg.Overrides["2026-02-18"])
	assert.True(t, cfg.Holidays.Contains("2026-12-25"))
}

func TestScheduleGormLoadInvalidPolicyFallsBack(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewScheduleGormRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "consultation_minutes", "break_minutes"}).
			AddRow("doc-a", 0, 15))
	mock.ExpectQuery(`SELECT \* FROM "weekly_hours"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "date_overrides"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "holidays"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cfg, err := repo.LoadSchedule(context.Background(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, schedule.DefaultPolicy(), cfg.Policy)
	assert.Equal(t, schedule.DefaultTemplate(), cfg.Template)
}
