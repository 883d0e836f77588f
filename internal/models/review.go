package models

import "time"

type Review struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	DoctorID  string `gorm:"size:64;not null;index" json:"doctor_id"`
	PatientID string `gorm:"size:64;not null" json:"patient_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:1000" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
