package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const DateLayout = "2006-01-02"

// Weekday is the fixed Monday-first enumeration used to index a WeeklyTemplate.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const daysPerWeek = 7

var weekdayNames = [daysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), nil
		}
	}
	return 0, httperr.ErrInvalidInput("invalid_weekday")
}

// WeekdayOf converts Go's Sunday-first weekday into the Monday-first one.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % daysPerWeek)
}

// ParseDate parses a strict ISO calendar date (YYYY-MM-DD) as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, httperr.ErrInvalidInput("invalid_date")
	}
	return d, nil
}

// ClockTime is a wall-clock time of day in minutes since midnight.
type ClockTime int

const minutesPerDay = 24 * 60

// ParseClock accepts only zero-padded 24h "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, httperr.ErrInvalidInput("invalid_time")
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, httperr.ErrInvalidInput("invalid_time")
	}
	return ClockTime(h*60 + m), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(fmt.Sprintf("schedule: bad clock literal %q", s))
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) Add(minutes int) ClockTime {
	return c + ClockTime(minutes)
}

// Hours returns c as fractional hours since midnight.
func (c ClockTime) Hours() float64 {
	return float64(c) / 60
}

// On places c on the calendar day of date, in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, loc)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	if c < 0 || c >= minutesPerDay {
		return nil, fmt.Errorf("schedule: clock out of range: %d", int(c))
	}
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return httperr.ErrInvalidInput("invalid_time")
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
