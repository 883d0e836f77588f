package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/analytics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	reviews    *analytics.SubmitReview
}

func NewAnalyticsHandler(aggregator *analytics.Aggregator, reviews *analytics.SubmitReview) *AnalyticsHandler {
	return &AnalyticsHandler{
		aggregator: aggregator,
		reviews:    reviews,
	}
}

type ReviewRequest struct {
	PatientID string `json:"patientId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	out, err := h.aggregator.Summary(c.Request.Context(), c.Param("doctorId"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, out)
}

// SubmitReview records a review. Patients always review as themselves.
func (h *AnalyticsHandler) SubmitReview(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	patientID := strings.TrimSpace(req.PatientID)
	if middleware.UserRole(c) == middleware.RolePatient {
		patientID = middleware.UserID(c)
	}
	if patientID == "" {
		httperr.BadRequest(c, "patient_required", "patientId is required.")
		return
	}
	if !validators.IsValidID(patientID) {
		httperr.BadRequest(c, "invalid_patient_id", "Malformed patientId.")
		return
	}

	r, err := h.reviews.Execute(c.Request.Context(), analytics.SubmitReviewInput{
		DoctorID:  c.Param("doctorId"),
		PatientID: patientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, r)
}
