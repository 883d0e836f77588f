package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

var messages = map[string]string{
	"invalid_date":               "Date must be formatted as YYYY-MM-DD.",
	"invalid_weekday":            "Unknown weekday name.",
	"incomplete_weekly_template": "Weekly template must define all seven days.",
	"duplicate_weekday":          "A weekday appears more than once in the template.",
	"invalid_request":            "Malformed request body.",
	"invalid_time":               "Time must be formatted as HH:MM (24h).",
	"invalid_time_range":         "Start time must be before end time on working days.",
	"invalid_duration":           "Consultation duration must be positive.",
	"invalid_break":              "Break must be zero or positive.",
	"invalid_status":             "Unknown appointment status.",
	"invalid_status_transition":  "Appointment status cannot change this way.",
	"invalid_rating":             "Rating must be between 1 and 5.",
	"patient_required":           "patientId is required.",
	"not_a_consultation_slot":    "Not a valid consultation time for this date.",
	"appointment_rejected":       "Rejected appointments cannot be rescheduled.",
	"too_soon":                   "This slot is too close to the current time.",
	"slot_taken":                 "The slot is already taken.",
	"concurrent_update":          "The appointment changed meanwhile. Reload and retry.",
	"doctor_not_found":           "Doctor not found.",
	"appointment_not_found":      "Appointment not found.",
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

// FromError writes the response matching err's Kind. Errors that are not a
// BusinessError are reported as internal failures without leaking details.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	switch be.Kind {
	case KindInvalidInput:
		BadRequest(c, be.Code, messageFor(be.Code))
	case KindConflict:
		Conflict(c, be.Code, messageFor(be.Code))
	case KindNotFound:
		NotFound(c, be.Code, messageFor(be.Code))
	default:
		Internal(c, be.Code, "Internal consistency failure.")
	}
}
