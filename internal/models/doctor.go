package models

import "time"

// Doctor is the root row of a doctor's schedule. Its presence is what
// "registered" means to the schedule store.
type Doctor struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`

	ConsultationMinutes int `gorm:"not null;default:30" json:"consultation_minutes"`
	BreakMinutes        int `gorm:"not null;default:15" json:"break_minutes"`

	WeeklyHours []WeeklyHours  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"weekly_hours"`
	Overrides   []DateOverride `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"overrides"`
	Holidays    []Holiday      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"holidays"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
