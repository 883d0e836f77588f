package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// GormSink writes events to the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Log(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		DoctorID: ev.DoctorID,
		ActorID:  ev.ActorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metadataJSON(ev.Metadata),
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// LogSink writes events to the structured log, for drivers without a table.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Log(_ context.Context, ev Event) error {
	entry := s.log.Info().
		Str("doctor_id", ev.DoctorID).
		Str("actor_id", ev.ActorID).
		Str("entity", ev.Entity).
		Str("entity_id", ev.EntityID)
	if meta := metadataJSON(ev.Metadata); meta != "" {
		entry = entry.RawJSON("metadata", []byte(meta))
	}
	entry.Msg(ev.Action)
	return nil
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
