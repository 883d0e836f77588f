package models

import "time"

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	DoctorID  string `gorm:"size:64;not null;index" json:"doctor_id"`
	PatientID string `gorm:"size:64;not null;index" json:"patient_id"`

	Date string `gorm:"size:10;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	RescheduleNote *string `gorm:"size:500" json:"reschedule_note"`
	Concern        string  `gorm:"size:500" json:"concern"`

	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
