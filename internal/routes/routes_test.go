package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

const (
	secret = "routes-secret"
	// a Monday
	monday = "2030-01-07"
)

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	dispatcher := audit.NewDispatcher(audit.NewLogSink(zerolog.Nop()), zerolog.Nop())
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config: &config.Config{
			JWTSecret:      secret,
			ClinicTimezone: "UTC",
		},
		Log:          zerolog.Nop(),
		Schedules:    store,
		Appointments: store,
		Reviews:      store,
		Locker:       lock.NewLocalLocker(),
		Audit:        dispatcher,
		Registry:     prometheus.NewRegistry(),
	})

	return &api{t: t, r: r}
}

func (a *api) token(sub, role string) string {
	tok, err := middleware.IssueToken(secret, sub, role, time.Hour)
	require.NoError(a.t, err)
	return tok
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Code string `json:"error_code"`
}

type appointmentBody struct {
	ID             string  `json:"id"`
	PatientID      string  `json:"patientId"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Status         string  `json:"status"`
	RescheduleNote *string `json:"rescheduleNote"`
}

type slotBody struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Occupied bool   `json:"occupied"`
}

func (a *api) register(doctorID string) {
	w := a.do(http.MethodPost, "/api/doctors/"+doctorID+"/schedule", a.token(doctorID, middleware.RoleDoctor), nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
}

func (a *api) book(doctorID, patientID, date, at string) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, "/api/doctors/"+doctorID+"/appointments", a.token(patientID, middleware.RolePatient),
		map[string]string{"date": date, "time": at, "concern": "checkup"})
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil).Code)

	a.register("doc-1")
	a.do(http.MethodGet, "/api/doctors/doc-1/slots?date="+monday, "", nil)

	w := a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clinic_scheduling_slot_requests_total")
}

func TestPublicAvailabilityAndSlots(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/doctors/ghost/availability?date="+monday, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "doctor_not_found", decode[errorBody](t, w).Code)

	a.register("doc-1")

	w = a.do(http.MethodGet, "/api/doctors/doc-1/availability?date="+monday, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isWorking":true,"start":"09:00","end":"17:00"}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/doctors/doc%201/availability?date="+monday, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_doctor_id", decode[errorBody](t, w).Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/availability?date=07/01/2030", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode[errorBody](t, w).Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/slots?date="+monday, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Date  string     `json:"date"`
		Slots []slotBody `json:"slots"`
	}](t, w)
	assert.Equal(t, monday, out.Date)
	require.Len(t, out.Slots, 11)
	assert.Equal(t, slotBody{Start: "09:00", End: "09:30"}, out.Slots[0])
	assert.Equal(t, slotBody{Start: "16:30", End: "17:00"}, out.Slots[10])

	// Sunday is off by default
	w = a.do(http.MethodGet, "/api/doctors/doc-1/slots?date=2030-01-06", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2030-01-06","slots":[]}`, w.Body.String())
}

func TestScheduleRoutesRequireTheDoctor(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/doctors/doc-1/schedule", "", nil).Code)
	assert.Equal(t, http.StatusForbidden,
		a.do(http.MethodGet, "/api/doctors/doc-1/schedule", a.token("doc-2", middleware.RoleDoctor), nil).Code)
	assert.Equal(t, http.StatusForbidden,
		a.do(http.MethodGet, "/api/doctors/doc-1/schedule", a.token("pat-1", middleware.RolePatient), nil).Code)
	assert.Equal(t, http.StatusOK,
		a.do(http.MethodGet, "/api/doctors/doc-1/schedule", a.token("root", middleware.RoleAdmin), nil).Code)

	// registering twice keeps the stored schedule
	w := a.do(http.MethodPost, "/api/doctors/doc-1/schedule", a.token("doc-1", middleware.RoleDoctor), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleEditing(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")
	doc := a.token("doc-1", middleware.RoleDoctor)

	w := a.do(http.MethodPut, "/api/doctors/doc-1/schedule/policy", doc,
		map[string]int{"durationMinutes": 60, "breakMinutes": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPut, "/api/doctors/doc-1/schedule/policy", doc,
		map[string]int{"durationMinutes": 0, "breakMinutes": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_duration", decode[errorBody](t, w).Code)

	w = a.do(http.MethodPut, "/api/doctors/doc-1/schedule/overrides/"+monday, doc,
		map[string]any{"startTime": "13:00", "endTime": "15:00", "isWorking": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/doctors/doc-1/slots?date="+monday, "", nil)
	out := decode[struct {
		Slots []slotBody `json:"slots"`
	}](t, w)
	assert.Equal(t, []slotBody{{Start: "13:00", End: "14:00"}, {Start: "14:00", End: "15:00"}}, out.Slots)

	w = a.do(http.MethodPut, "/api/doctors/doc-1/schedule/overrides/"+monday, doc,
		map[string]any{"startTime": "25:00", "endTime": "15:00", "isWorking": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_time", decode[errorBody](t, w).Code)

	w = a.do(http.MethodDelete, "/api/doctors/doc-1/schedule/overrides/"+monday, doc, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/api/doctors/doc-1/schedule/holidays", doc, map[string]string{"date": monday})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/availability?date="+monday, "", nil)
	assert.JSONEq(t, `{"isWorking":false,"start":"00:00","end":"00:00"}`, w.Body.String())

	w = a.do(http.MethodDelete, "/api/doctors/doc-1/schedule/holidays/"+monday, doc, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/api/doctors/doc-1/schedule/overrides/"+monday+"/day-off", doc, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/availability?date="+monday, "", nil)
	assert.JSONEq(t, `{"isWorking":false,"start":"00:00","end":"00:00"}`, w.Body.String())
}

func TestWeeklyTemplateMustBeComplete(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")

	w := a.do(http.MethodPut, "/api/doctors/doc-1/schedule/weekly", a.token("doc-1", middleware.RoleDoctor),
		map[string]any{"monday": map[string]any{"startTime": "08:00", "endTime": "12:00", "isWorking": true}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "incomplete_weekly_template", decode[errorBody](t, w).Code)
}

func TestBookingLifecycle(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")
	doc := a.token("doc-1", middleware.RoleDoctor)

	w := a.book("doc-1", "pat-1", monday, "09:45")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booked := decode[appointmentBody](t, w)
	assert.Equal(t, "pending", booked.Status)
	assert.Equal(t, "pat-1", booked.PatientID)
	assert.Nil(t, booked.RescheduleNote)

	w = a.book("doc-1", "pat-2", monday, "09:45")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", decode[errorBody](t, w).Code)

	w = a.book("doc-1", "pat-2", monday, "09:10")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_a_consultation_slot", decode[errorBody](t, w).Code)

	// doctors cannot book
	w = a.do(http.MethodPost, "/api/doctors/doc-1/appointments", doc, map[string]string{"date": monday, "time": "10:30"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// patients cannot book for someone else
	w = a.do(http.MethodPost, "/api/doctors/doc-1/appointments", a.token("pat-2", middleware.RolePatient),
		map[string]string{"patientId": "pat-1", "date": monday, "time": "10:30"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/slots?date="+monday, "", nil)
	slots := decode[struct {
		Slots []slotBody `json:"slots"`
	}](t, w).Slots
	assert.True(t, slots[1].Occupied)
	assert.False(t, slots[0].Occupied)

	path := "/api/appointments/" + booked.ID

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, a.token("pat-2", middleware.RolePatient), nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, a.token("pat-1", middleware.RolePatient), nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, doc, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/appointments/nope", doc, nil).Code)

	w = a.do(http.MethodPatch, path+"/status", a.token("pat-1", middleware.RolePatient), map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPatch, path+"/status", doc, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode[appointmentBody](t, w).Status)

	w = a.do(http.MethodPatch, path+"/reschedule", a.token("pat-1", middleware.RolePatient),
		map[string]string{"date": monday, "time": "10:30", "note": "  running late  "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved := decode[appointmentBody](t, w)
	assert.Equal(t, "10:30", moved.Time)
	assert.Equal(t, "pending", moved.Status)
	require.NotNil(t, moved.RescheduleNote)
	assert.Equal(t, "running late", *moved.RescheduleNote)

	// the old slot is free again
	assert.Equal(t, http.StatusCreated, a.book("doc-1", "pat-2", monday, "09:45").Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/appointments?date="+monday, doc, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data  []appointmentBody `json:"data"`
		Total int               `json:"total"`
	}](t, w)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "09:45", list.Data[0].Time)
	assert.Equal(t, "10:30", list.Data[1].Time)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/appointments?status=done", doc, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status", decode[errorBody](t, w).Code)
}

func TestStatusRules(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")
	doc := a.token("doc-1", middleware.RoleDoctor)

	booked := decode[appointmentBody](t, a.book("doc-1", "pat-1", monday, "09:00"))
	path := "/api/appointments/" + booked.ID

	w := a.do(http.MethodPatch, path+"/status", doc, map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPatch, path+"/status", doc, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status_transition", decode[errorBody](t, w).Code)

	w = a.do(http.MethodPatch, path+"/reschedule", doc, map[string]string{"date": monday, "time": "10:30"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "appointment_rejected", decode[errorBody](t, w).Code)

	// a rejected appointment frees its slot
	assert.Equal(t, http.StatusCreated, a.book("doc-1", "pat-2", monday, "09:00").Code)
}

func TestDayScheduleAndAnalytics(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")
	doc := a.token("doc-1", middleware.RoleDoctor)

	require.Equal(t, http.StatusCreated, a.book("doc-1", "pat-1", monday, "09:45").Code)
	require.Equal(t, http.StatusCreated, a.book("doc-1", "pat-2", monday, "09:00").Code)

	// 60 minute consultations leave 09:45 off the grid
	w := a.do(http.MethodPut, "/api/doctors/doc-1/schedule/policy", doc,
		map[string]int{"durationMinutes": 60, "breakMinutes": 15})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/day?date="+monday, doc, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	day := decode[struct {
		Slots        []slotBody        `json:"slots"`
		OffGrid      []appointmentBody `json:"offGrid"`
		Appointments []appointmentBody `json:"appointments"`
	}](t, w)
	assert.Len(t, day.Appointments, 2)
	require.Len(t, day.OffGrid, 1)
	assert.Equal(t, "09:45", day.OffGrid[0].Time)

	w = a.do(http.MethodPost, "/api/doctors/doc-1/reviews", a.token("pat-1", middleware.RolePatient),
		map[string]any{"rating": 4, "comment": "kind"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/doctors/doc-1/reviews", a.token("pat-2", middleware.RolePatient),
		map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_rating", decode[errorBody](t, w).Code)

	w = a.do(http.MethodGet, "/api/doctors/doc-1/analytics", doc, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]any](t, w)
	assert.EqualValues(t, 40, summary["weeklyHours"])
	assert.EqualValues(t, 4, summary["averageRating"])
	assert.EqualValues(t, 1, summary["reviewCount"])
	assert.EqualValues(t, 2, summary["totalPatients"])
}

func TestMalformedBody(t *testing.T) {
	a := newAPI(t)
	a.register("doc-1")

	req := httptest.NewRequest(http.MethodPut, "/api/doctors/doc-1/schedule/policy", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token("doc-1", middleware.RoleDoctor))
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[errorBody](t, w).Code)
}
