package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) ListReviews(ctx context.Context, doctorID string) ([]review.Review, error) {
	var rows []models.Review
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	out := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, review.Review{
			ID:        row.ID,
			DoctorID:  row.DoctorID,
			PatientID: row.PatientID,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (r *ReviewGormRepository) AddReview(ctx context.Context, rv review.Review) error {
	row := models.Review{
		ID:        rv.ID,
		DoctorID:  rv.DoctorID,
		PatientID: rv.PatientID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	return nil
}

var _ review.Store = (*ReviewGormRepository)(nil)
