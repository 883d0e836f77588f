package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAnalytics "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/analytics"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
)

// Deps are the process singletons the API is built on. AuditReader and
// Publisher are optional.
type Deps struct {
	Config *config.Config
	Log    zerolog.Logger

	Schedules    schedule.Store
	Appointments appointment.Store
	Reviews      review.Store
	Locker       lock.Locker

	Audit       *audit.Dispatcher
	AuditReader audit.Reader
	Publisher   events.Publisher
	Registry    *prometheus.Registry
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	schedulingMetrics := metrics.NewSchedulingMetrics(d.Registry)

	resolver := schedule.NewResolver(d.Schedules)
	ledger := appointment.NewLedger(d.Appointments, d.Locker)

	// ======================================================
	// USE CASES
	// ======================================================
	coordinator := ucAppointment.NewCoordinator(
		resolver,
		ledger,
		d.Audit,
		ucAppointment.WithMinAdvance(time.Duration(cfg.MinAdvanceMinutes)*time.Minute, cfg.ClinicTimezone),
		ucAppointment.WithPublisher(d.Publisher),
		ucAppointment.WithMetrics(schedulingMetrics),
		ucAppointment.WithLogger(d.Log),
	)

	getAvailabilityUC := ucAppointment.NewGetAvailability(resolver)
	listSlotsUC := ucAppointment.NewListSlots(resolver, ledger, schedulingMetrics)
	daySchedule := ucAppointment.NewGetDaySchedule(resolver, ledger)
	listAppointmentsUC := ucAppointment.NewListAppointments(ledger)
	getAppointmentUC := ucAppointment.NewGetAppointment(ledger)

	editor := ucSchedule.NewEditor(d.Schedules, d.Locker, d.Audit)

	aggregator := ucAnalytics.NewAggregator(d.Schedules, ledger, d.Reviews, cfg.ClinicTimezone)
	submitReviewUC := ucAnalytics.NewSubmitReview(d.Schedules, d.Reviews, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	scheduleHandler := handlers.NewScheduleHandler(editor, getAvailabilityUC, listSlotsUC, daySchedule)
	appointmentHandler := handlers.NewAppointmentHandler(coordinator, listAppointmentsUC, getAppointmentUC)
	analyticsHandler := handlers.NewAnalyticsHandler(aggregator, submitReviewUC)

	// ======================================================
	// HEALTH / METRICS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	validDoctor := middleware.ValidIDParam("doctorId", "invalid_doctor_id")

	// ======================================================
	// PUBLIC API
	// ======================================================
	public := api.Group("/doctors/:doctorId", validDoctor)
	{
		public.GET("/availability", scheduleHandler.Availability)
		public.GET("/slots", scheduleHandler.Slots)
	}

	// ======================================================
	// AUTHENTICATED API
	// ======================================================
	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	doctor := secured.Group("/doctors/:doctorId", validDoctor)
	doctor.Use(middleware.RequireDoctorSelf("doctorId"))
	{
		doctor.POST("/schedule", scheduleHandler.Register)
		doctor.GET("/schedule", scheduleHandler.Get)
		doctor.PUT("/schedule/weekly", scheduleHandler.UpdateWeekly)
		doctor.PUT("/schedule/policy", scheduleHandler.UpdatePolicy)
		doctor.PUT("/schedule/overrides/:date", scheduleHandler.SetOverride)
		doctor.DELETE("/schedule/overrides/:date", scheduleHandler.RemoveOverride)
		doctor.POST("/schedule/overrides/:date/day-off", scheduleHandler.MarkDayOff)
		doctor.POST("/schedule/holidays", scheduleHandler.AddHoliday)
		doctor.DELETE("/schedule/holidays/:date", scheduleHandler.RemoveHoliday)

		doctor.GET("/day", scheduleHandler.Day)
		doctor.GET("/appointments", appointmentHandler.List)
		doctor.GET("/analytics", analyticsHandler.Summary)

		if d.AuditReader != nil {
			doctor.GET("/audit-logs", handlers.NewAuditLogsHandler(d.AuditReader).List)
		}
	}

	patient := secured.Group("/doctors/:doctorId", validDoctor)
	patient.Use(middleware.RequireRole(middleware.RolePatient, middleware.RoleAdmin))
	{
		patient.POST("/appointments", appointmentHandler.Book)
		patient.POST("/reviews", analyticsHandler.SubmitReview)
	}

	// ownership is checked per appointment inside the handler
	appointments := secured.Group("/appointments/:id")
	{
		appointments.GET("", appointmentHandler.Get)
		appointments.PATCH("/reschedule", appointmentHandler.Reschedule)
		appointments.PATCH("/status", appointmentHandler.SetStatus)
	}
}
