package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// LoadSchedule lays the stored rows over the defaults. A missing or unreadable
// template row falls back to the default for that day.
func (r *ScheduleGormRepository) LoadSchedule(
	ctx context.Context,
	doctorID string,
) (schedule.Config, error) {

	db := r.db.WithContext(ctx)

	var doctor models.Doctor
	err := db.Where("id = ?", doctorID).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return schedule.Config{}, httperr.ErrNotFound("doctor_not_found")
	}
	if err != nil {
		return schedule.Config{}, fmt.Errorf("load doctor: %w", err)
	}

	rec := scheduleRecord{
		Policy: &schedule.ConsultationPolicy{
			DurationMinutes: doctor.ConsultationMinutes,
			BreakMinutes:    doctor.BreakMinutes,
		},
		Weekly:    map[schedule.Weekday]dayRecord{},
		Overrides: map[string]dayRecord{},
	}

	var weekly []models.WeeklyHours
	if err := db.Where("doctor_id = ?", doctorID).Find(&weekly).Error; err != nil {
		return schedule.Config{}, fmt.Errorf("load weekly hours: %w", err)
	}
	for _, row := range weekly {
		rec.Weekly[schedule.Weekday(row.Weekday)] = dayRecord{Start: row.StartTime, End: row.EndTime, Working: row.IsWorking}
	}

	var overrides []models.DateOverride
	if err := db.Where("doctor_id = ?", doctorID).Find(&overrides).Error; err != nil {
		return schedule.Config{}, fmt.Errorf("load overrides: %w", err)
	}
	for _, row := range overrides {
		rec.Overrides[row.Date] = dayRecord{Start: row.StartTime, End: row.EndTime, Working: row.IsWorking}
	}

	var holidays []models.Holiday
	if err := db.Where("doctor_id = ?", doctorID).Find(&holidays).Error; err != nil {
		return schedule.Config{}, fmt.Errorf("load holidays: %w", err)
	}
	for _, row := range holidays {
		rec.Holidays = append(rec.Holidays, row.Date)
	}

	return rec.build(), nil
}

// SaveSchedule replaces every schedule row of the doctor in one transaction.
func (r *ScheduleGormRepository) SaveSchedule(
	ctx context.Context,
	doctorID string,
	cfg schedule.Config,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doctor := models.Doctor{
			ID:                  doctorID,
			ConsultationMinutes: cfg.Policy.DurationMinutes,
			BreakMinutes:        cfg.Policy.BreakMinutes,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"consultation_minutes", "break_minutes", "updated_at"}),
		}).Create(&doctor).Error; err != nil {
			return fmt.Errorf("save doctor: %w", err)
		}

		// ---------- weekly template ----------
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.WeeklyHours{}).Error; err != nil {
			return fmt.Errorf("clear weekly hours: %w", err)
		}
		weekly := make([]models.WeeklyHours, 0, len(cfg.Template))
		for d, rule := range cfg.Template {
			weekly = append(weekly, models.WeeklyHours{
				DoctorID:  doctorID,
				Weekday:   d,
				StartTime: rule.Start.String(),
				EndTime:   rule.End.String(),
				IsWorking: rule.IsWorking,
			})
		}
		if err := tx.Create(&weekly).Error; err != nil {
			return fmt.Errorf("save weekly hours: %w", err)
		}

		// ---------- overrides ----------
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.DateOverride{}).Error; err != nil {
			return fmt.Errorf("clear overrides: %w", err)
		}
		if len(cfg.Overrides) > 0 {
			overrides := make([]models.DateOverride, 0, len(cfg.Overrides))
			for date, rule := range cfg.Overrides {
				overrides = append(overrides, models.DateOverride{
					DoctorID:  doctorID,
					Date:      date,
					StartTime: rule.Start.String(),
					EndTime:   rule.End.String(),
					IsWorking: rule.IsWorking,
				})
			}
			if err := tx.Create(&overrides).Error; err != nil {
				return fmt.Errorf("save overrides: %w", err)
			}
		}

		// ---------- holidays ----------
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.Holiday{}).Error; err != nil {
			return fmt.Errorf("clear holidays: %w", err)
		}
		if len(cfg.Holidays) > 0 {
			holidays := make([]models.Holiday, 0, len(cfg.Holidays))
			for _, date := range cfg.Holidays.Dates() {
				holidays = append(holidays, models.Holiday{DoctorID: doctorID, Date: date})
			}
			if err := tx.Create(&holidays).Error; err != nil {
				return fmt.Errorf("save holidays: %w", err)
			}
		}

		return nil
	})
}

// Compile-time check
var _ schedule.Store = (*ScheduleGormRepository)(nil)
