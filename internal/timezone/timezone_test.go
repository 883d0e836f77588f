package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Mars/Olympus"))
	assert.Equal(t, "Asia/Kolkata", Location("Asia/Kolkata").String())
}

func TestTodayUsesClinicCalendar(t *testing.T) {
	// 20:00 UTC is already the next day in Kolkata
	now := time.Date(2026, 2, 17, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-02-18", Today("Asia/Kolkata", now))
	assert.Equal(t, "2026-02-17", Today("UTC", now))
}
