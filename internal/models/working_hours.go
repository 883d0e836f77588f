package models

import "time"

// WeeklyHours is one template row. Weekday is Monday-first (0..6).
type WeeklyHours struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID string `gorm:"size:64;not null;uniqueIndex:idx_weekly_doctor_day" json:"doctor_id"`

	Weekday int `gorm:"not null;uniqueIndex:idx_weekly_doctor_day" json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	IsWorking bool   `json:"is_working"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DateOverride struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID string `gorm:"size:64;not null;uniqueIndex:idx_override_doctor_date" json:"doctor_id"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_override_doctor_date" json:"date"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	IsWorking bool   `json:"is_working"`

	CreatedAt time.Time `json:"created_at"`
}

type Holiday struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID string `gorm:"size:64;not null;uniqueIndex:idx_holiday_doctor_date" json:"doctor_id"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_holiday_doctor_date" json:"date"`

	CreatedAt time.Time `json:"created_at"`
}
