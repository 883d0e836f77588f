package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucappointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucschedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	editor       *ucschedule.Editor
	availability *ucappointment.GetAvailability
	slots        *ucappointment.ListSlots
	day          *ucappointment.GetDaySchedule
}

func NewScheduleHandler(
	editor *ucschedule.Editor,
	availability *ucappointment.GetAvailability,
	slots *ucappointment.ListSlots,
	day *ucappointment.GetDaySchedule,
) *ScheduleHandler {
	return &ScheduleHandler{
		editor:       editor,
		availability: availability,
		slots:        slots,
		day:          day,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type HolidayRequest struct {
	Date string `json:"date" binding:"required"`
}

// ======================================================
// PUBLIC READS
// ======================================================

func (h *ScheduleHandler) Availability(c *gin.Context) {
	window, err := h.availability.Execute(c.Request.Context(), c.Param("doctorId"), c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, window)
}

func (h *ScheduleHandler) Slots(c *gin.Context) {
	out, err := h.slots.Execute(c.Request.Context(), c.Param("doctorId"), c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, out)
}

// ======================================================
// DOCTOR
// ======================================================

func (h *ScheduleHandler) Day(c *gin.Context) {
	out, err := h.day.Execute(c.Request.Context(), c.Param("doctorId"), c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, out)
}

// Register seeds the default schedule. Repeating it returns the stored one.
func (h *ScheduleHandler) Register(c *gin.Context) {
	cfg, created, err := h.editor.Register(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if created {
		httpresp.Created(c, cfg)
		return
	}
	httpresp.OK(c, cfg)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	cfg, err := h.editor.Get(c.Request.Context(), c.Param("doctorId"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cfg)
}

func (h *ScheduleHandler) UpdateWeekly(c *gin.Context) {
	var tpl schedule.WeeklyTemplate
	if !bindJSON(c, &tpl) {
		return
	}
	h.respond(c)(h.editor.UpdateTemplate(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), tpl))
}

func (h *ScheduleHandler) UpdatePolicy(c *gin.Context) {
	var policy schedule.ConsultationPolicy
	if !bindJSON(c, &policy) {
		return
	}
	h.respond(c)(h.editor.UpdatePolicy(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), policy))
}

func (h *ScheduleHandler) SetOverride(c *gin.Context) {
	var rule schedule.DayRule
	if !bindJSON(c, &rule) {
		return
	}
	h.respond(c)(h.editor.SetOverride(
		c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), c.Param("date"), rule,
	))
}

func (h *ScheduleHandler) MarkDayOff(c *gin.Context) {
	h.respond(c)(h.editor.MarkDayOff(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), c.Param("date")))
}

func (h *ScheduleHandler) RemoveOverride(c *gin.Context) {
	h.respond(c)(h.editor.RemoveOverride(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), c.Param("date")))
}

func (h *ScheduleHandler) AddHoliday(c *gin.Context) {
	var req HolidayRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.editor.AddHoliday(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), req.Date))
}

func (h *ScheduleHandler) RemoveHoliday(c *gin.Context) {
	h.respond(c)(h.editor.RemoveHoliday(c.Request.Context(), c.Param("doctorId"), middleware.UserID(c), c.Param("date")))
}

func (h *ScheduleHandler) respond(c *gin.Context) func(schedule.Config, error) {
	return func(cfg schedule.Config, err error) {
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}
