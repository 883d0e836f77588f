package analytics

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// PURE AGGREGATES
// ======================================================

// WeeklyHours sums the working hours of every working weekday.
func WeeklyHours(tpl schedule.WeeklyTemplate) float64 {
	var total float64
	for d := schedule.Monday; d <= schedule.Sunday; d++ {
		r := tpl.Day(d)
		total += schedule.WorkingWindow{IsWorking: r.IsWorking, Start: r.Start, End: r.End}.Hours()
	}
	return total
}

func MonthlyHours(weekly float64, daysInMonth int) float64 {
	return weekly / 7 * float64(daysInMonth)
}

func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AverageRating is the mean rating rounded to one decimal, 0 without reviews.
func AverageRating(reviews []review.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}

// ======================================================
// SUMMARY
// ======================================================

type Summary struct {
	WeeklyHours          float64        `json:"weeklyHours"`
	MonthlyHours         float64        `json:"monthlyHours"`
	AverageRating        float64        `json:"averageRating"`
	ReviewCount          int            `json:"reviewCount"`
	TotalPatients        int            `json:"totalPatients"`
	AppointmentsByStatus map[string]int `json:"appointmentsByStatus"`
}

// Aggregator is read-only: it never mutates any store.
type Aggregator struct {
	schedules schedule.Store
	ledger    *appointment.Ledger
	reviews   review.Store
	timezone  string
	now       func() time.Time
}

func NewAggregator(
	schedules schedule.Store,
	ledger *appointment.Ledger,
	reviews review.Store,
	tz string,
) *Aggregator {
	return &Aggregator{
		schedules: schedules,
		ledger:    ledger,
		reviews:   reviews,
		timezone:  tz,
		now:       time.Now,
	}
}

func (a *Aggregator) Summary(ctx context.Context, doctorID string) (Summary, error) {
	cfg, err := a.schedules.LoadSchedule(ctx, doctorID)
	if err != nil {
		return Summary{}, err
	}

	list, err := a.ledger.ListByDoctor(ctx, doctorID)
	if err != nil {
		return Summary{}, err
	}

	reviews, err := a.reviews.ListReviews(ctx, doctorID)
	if err != nil {
		return Summary{}, err
	}

	weekly := WeeklyHours(cfg.Template)
	month := a.now().In(timezone.Location(a.timezone))

	byStatus := map[string]int{
		string(appointment.StatusPending):   0,
		string(appointment.StatusConfirmed): 0,
		string(appointment.StatusRejected):  0,
	}
	patients := make(map[string]struct{})
	for _, ap := range list {
		byStatus[string(ap.Status)]++
		if ap.PatientID != "" {
			patients[ap.PatientID] = struct{}{}
		}
	}

	return Summary{
		WeeklyHours:          weekly,
		MonthlyHours:         MonthlyHours(weekly, DaysInMonth(month)),
		AverageRating:        AverageRating(reviews),
		ReviewCount:          len(reviews),
		TotalPatients:        len(patients),
		AppointmentsByStatus: byStatus,
	}, nil
}

// ======================================================
// SUBMIT REVIEW
// ======================================================

type SubmitReviewInput struct {
	DoctorID  string
	PatientID string
	Rating    int
	Comment   string
}

type SubmitReview struct {
	schedules schedule.Store
	reviews   review.Store
	audit     *audit.Dispatcher
	now       func() time.Time
}

func NewSubmitReview(
	schedules schedule.Store,
	reviews review.Store,
	audit *audit.Dispatcher,
) *SubmitReview {
	return &SubmitReview{
		schedules: schedules,
		reviews:   reviews,
		audit:     audit,
		now:       time.Now,
	}
}

func (uc *SubmitReview) Execute(ctx context.Context, in SubmitReviewInput) (review.Review, error) {
	r := review.Review{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := r.Normalize(); err != nil {
		return review.Review{}, err
	}

	// reviews are only accepted for registered doctors
	if _, err := uc.schedules.LoadSchedule(ctx, in.DoctorID); err != nil {
		return review.Review{}, err
	}

	r.ID = uuid.NewString()
	r.CreatedAt = uc.now()
	if err := uc.reviews.AddReview(ctx, r); err != nil {
		return review.Review{}, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: r.DoctorID,
		ActorID:  r.PatientID,
		Action:   audit.ActionReviewSubmitted,
		Entity:   "review",
		EntityID: r.ID,
	})
	return r, nil
}
