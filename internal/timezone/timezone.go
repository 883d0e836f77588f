package timezone

import (
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is used when the clinic timezone is empty or unknown.
const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Today is the clinic's calendar date for now, as YYYY-MM-DD.
func Today(tz string, now time.Time) string {
	return now.In(Location(tz)).Format("2006-01-02")
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
