package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucappointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	coordinator *ucappointment.Coordinator
	list        *ucappointment.ListAppointments
	get         *ucappointment.GetAppointment
}

func NewAppointmentHandler(
	coordinator *ucappointment.Coordinator,
	list *ucappointment.ListAppointments,
	get *ucappointment.GetAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		coordinator: coordinator,
		list:        list,
		get:         get,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	PatientID string `json:"patientId"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Concern   string `json:"concern"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
	Note string `json:"note"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// ACCESS
// ======================================================

func canView(c *gin.Context, ap domain.Appointment) bool {
	user := middleware.UserID(c)
	switch middleware.UserRole(c) {
	case middleware.RoleAdmin:
		return true
	case middleware.RoleDoctor:
		return ap.DoctorID == user
	case middleware.RolePatient:
		return ap.PatientID == user
	}
	return false
}

func canDecide(c *gin.Context, ap domain.Appointment) bool {
	switch middleware.UserRole(c) {
	case middleware.RoleAdmin:
		return true
	case middleware.RoleDoctor:
		return ap.DoctorID == middleware.UserID(c)
	}
	return false
}

// load fetches the path appointment and enforces the access rule. It writes
// the error response when it returns false.
func (h *AppointmentHandler) load(c *gin.Context, allowed func(*gin.Context, domain.Appointment) bool) bool {
	ap, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return false
	}
	if !allowed(c, ap) {
		httperr.Forbidden(c, "forbidden", "You cannot access this appointment.")
		return false
	}
	return true
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	patientID := strings.TrimSpace(req.PatientID)
	if middleware.UserRole(c) == middleware.RolePatient {
		if patientID != "" && patientID != middleware.UserID(c) {
			httperr.Forbidden(c, "forbidden", "Patients can only book for themselves.")
			return
		}
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

	ap, err := h.coordinator.Book(c.Request.Context(), ucappointment.BookInput{
		DoctorID:  c.Param("doctorId"),
		PatientID: patientID,
		ActorID:   middleware.UserID(c),
		Date:      req.Date,
		Time:      req.Time,
		Concern:   req.Concern,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context(), c.Param("doctorId"), ucappointment.ListAppointmentsFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if !canView(c, ap) {
		httperr.Forbidden(c, "forbidden", "You cannot access this appointment.")
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.load(c, canView) {
		return
	}

	ap, err := h.coordinator.Reschedule(c.Request.Context(), ucappointment.RescheduleInput{
		AppointmentID: c.Param("id"),
		ActorID:       middleware.UserID(c),
		Date:          req.Date,
		Time:          req.Time,
		Note:          req.Note,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.load(c, canDecide) {
		return
	}

	ap, err := h.coordinator.SetStatus(c.Request.Context(), ucappointment.SetStatusInput{
		AppointmentID: c.Param("id"),
		ActorID:       middleware.UserID(c),
		Status:        req.Status,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
