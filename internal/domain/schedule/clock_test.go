package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestParseClock(t *testing.T) {
	valid := map[string]ClockTime{
		"00:00": 0,
		"09:45": 9*60 + 45,
		"23:59": 23*60 + 59,
	}
	for in, want := range valid {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.Equal(t, in, got.String())
	}

	for _, in := range []string{"", "9:00", "24:00", "12:60", "12-30", "ab:cd", "09:000"} {
		_, err := ParseClock(in)
		assert.True(t, httperr.IsBusiness(err, "invalid_time"), in)
	}
}

func TestParseDateRejectsMalformed(t *testing.T) {
	_, err := ParseDate("2026-02-18")
	require.NoError(t, err)

	for _, in := range []string{"2026-2-18", "18/02/2026", "2026-02-30", ""} {
		_, err := ParseDate(in)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalidInput), in)
	}
}

func TestWeekdayOfIsMondayFirst(t *testing.T) {
	monday := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, Weekday(i), WeekdayOf(monday.AddDate(0, 0, i)))
	}
	assert.Equal(t, "sunday", Sunday.String())
}

func TestClockJSON(t *testing.T) {
	b, err := json.Marshal(MustClock("16:30"))
	require.NoError(t, err)
	assert.JSONEq(t, `"16:30"`, string(b))

	var c ClockTime
	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &c))
}
