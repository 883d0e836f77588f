package schedule

import (
	"encoding/json"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// DayRule is one availability rule, used both for weekly template entries and
// for date overrides.
type DayRule struct {
	Start     ClockTime `json:"startTime"`
	End       ClockTime `json:"endTime"`
	IsWorking bool      `json:"isWorking"`
}

func (r DayRule) Validate() error {
	if r.IsWorking && r.Start >= r.End {
		return httperr.ErrInvalidInput("invalid_time_range")
	}
	return nil
}

// DayOff is the rule written when a doctor marks a whole date as off.
func DayOff() DayRule {
	return DayRule{IsWorking: false}
}

// WeeklyTemplate holds exactly one rule per weekday, indexed by Weekday.
type WeeklyTemplate [daysPerWeek]DayRule

func DefaultTemplate() WeeklyTemplate {
	weekday := DayRule{Start: MustClock("09:00"), End: MustClock("17:00"), IsWorking: true}

	var t WeeklyTemplate
	for d := Monday; d <= Friday; d++ {
		t[d] = weekday
	}
	t[Saturday] = DayRule{Start: MustClock("10:00"), End: MustClock("14:00"), IsWorking: false}
	t[Sunday] = DayOff()
	return t
}

func (t WeeklyTemplate) Day(d Weekday) DayRule {
	return t[d]
}

func (t WeeklyTemplate) Validate() error {
	for _, r := range t {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t WeeklyTemplate) MarshalJSON() ([]byte, error) {
	out := make(map[string]DayRule, daysPerWeek)
	for d := Monday; d <= Sunday; d++ {
		out[d.String()] = t[d]
	}
	return json.Marshal(out)
}

// UnmarshalJSON requires every weekday to be present exactly once. Names are
// case-insensitive, so "Monday" and "monday" name the same day.
func (t *WeeklyTemplate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var in map[string]DayRule
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var (
		out  WeeklyTemplate
		seen [daysPerWeek]bool
	)
	for name, rule := range in {
		d, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		if seen[d] {
			return httperr.ErrInvalidInput("duplicate_weekday")
		}
		seen[d] = true
		out[d] = rule
	}
	for _, ok := range seen {
		if !ok {
			return httperr.ErrInvalidInput("incomplete_weekly_template")
		}
	}

	*t = out
	return nil
}
