package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *AppointmentGormRepository) LoadAppointments(
	ctx context.Context,
	doctorID string,
) ([]domain.Appointment, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date ASC, time ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		ap, err := appointmentFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

// SaveAppointments writes only the records whose Version moved past the
// stored one. Updates are compare-and-swap on the previous version, so a
// writer holding a stale ledger cannot undo another instance's change. The
// partial unique index on active slots turns a lost slot race into a conflict.
func (r *AppointmentGormRepository) SaveAppointments(
	ctx context.Context,
	doctorID string,
	list []domain.Appointment,
) error {

	if len(list) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored []models.Appointment
		if err := tx.
			Select("id", "version").
			Where("doctor_id = ?", doctorID).
			Find(&stored).Error; err != nil {
			return err
		}

		versions := make(map[string]int, len(stored))
		for _, row := range stored {
			versions[row.ID] = row.Version
		}

		for _, ap := range list {
			row := appointmentToModel(ap)
			row.DoctorID = doctorID

			current, exists := versions[row.ID]
			switch {
			case !exists:
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			case row.Version > current:
				if err := updateAppointmentRow(tx, row); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if httperr.IsKind(err, httperr.KindConflict) {
		return err
	}
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("slot_taken")
	}
	if err != nil {
		return fmt.Errorf("save appointments: %w", err)
	}
	return nil
}

func updateAppointmentRow(tx *gorm.DB, row models.Appointment) error {
	res := tx.Model(&models.Appointment{}).
		Where("id = ? AND version = ?", row.ID, row.Version-1).
		Updates(map[string]interface{}{
			"date":            row.Date,
			"time":            row.Time,
			"status":          row.Status,
			"reschedule_note": row.RescheduleNote,
			"version":         row.Version,
			"updated_at":      row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConflict("concurrent_update")
	}
	return nil
}

// --------------------------------------------------
// Lookup
// --------------------------------------------------

func (r *AppointmentGormRepository) LocateAppointment(
	ctx context.Context,
	appointmentID string,
) (string, error) {

	var row models.Appointment
	err := r.db.WithContext(ctx).
		Select("doctor_id").
		Where("id = ?", appointmentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", httperr.ErrNotFound("appointment_not_found")
	}
	if err != nil {
		return "", fmt.Errorf("locate appointment: %w", err)
	}
	return row.DoctorID, nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func appointmentToModel(ap domain.Appointment) models.Appointment {
	return models.Appointment{
		ID:             ap.ID,
		DoctorID:       ap.DoctorID,
		PatientID:      ap.PatientID,
		Date:           ap.Date,
		Time:           ap.Time.String(),
		Status:         string(ap.Status),
		RescheduleNote: ap.RescheduleNote,
		Concern:        ap.Concern,
		CreatedAt:      ap.CreatedAt,
		UpdatedAt:      ap.UpdatedAt,
		Version:        ap.Version,
	}
}

func appointmentFromModel(row models.Appointment) (domain.Appointment, error) {
	at, err := schedule.ParseClock(row.Time)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("appointment %s: bad time %q: %w", row.ID, row.Time, err)
	}
	status, err := domain.ParseStatus(row.Status)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("appointment %s: bad status %q: %w", row.ID, row.Status, err)
	}

	return domain.Appointment{
		ID:             row.ID,
		DoctorID:       row.DoctorID,
		PatientID:      row.PatientID,
		Date:           row.Date,
		Time:           at,
		Status:         status,
		RescheduleNote: row.RescheduleNote,
		Concern:        row.Concern,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Version:        row.Version,
	}, nil
}

// Compile-time check
var _ domain.Store = (*AppointmentGormRepository)(nil)
