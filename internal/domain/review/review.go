package review

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctorId"`
	PatientID string    `json:"patientId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Review) Normalize() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return httperr.ErrInvalidInput("invalid_rating")
	}
	r.Comment = strings.TrimSpace(r.Comment)
	return nil
}

// Store keeps reviews append-only.
type Store interface {
	ListReviews(ctx context.Context, doctorID string) ([]Review, error)
	AddReview(ctx context.Context, r Review) error
}
