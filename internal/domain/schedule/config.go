package schedule

import (
	"encoding/json"
	"sort"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type ConsultationPolicy struct {
	DurationMinutes int `json:"durationMinutes"`
	BreakMinutes    int `json:"breakMinutes"`
}

func DefaultPolicy() ConsultationPolicy {
	return ConsultationPolicy{DurationMinutes: 30, BreakMinutes: 15}
}

func (p ConsultationPolicy) Validate() error {
	if p.DurationMinutes <= 0 {
		return httperr.ErrInvalidInput("invalid_duration")
	}
	if p.BreakMinutes < 0 {
		return httperr.ErrInvalidInput("invalid_break")
	}
	return nil
}

// Step is the distance between two consecutive slot starts.
func (p ConsultationPolicy) Step() int {
	return p.DurationMinutes + p.BreakMinutes
}

// HolidaySet is a set of ISO dates. It serializes as a sorted array.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...string) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		h[d] = struct{}{}
	}
	return h
}

func (h HolidaySet) Contains(date string) bool {
	_, ok := h[date]
	return ok
}

func (h HolidaySet) Dates() []string {
	out := make([]string, 0, len(h))
	for d := range h {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (h HolidaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Dates())
}

func (h *HolidaySet) UnmarshalJSON(data []byte) error {
	var dates []string
	if err := json.Unmarshal(data, &dates); err != nil {
		return err
	}
	for _, d := range dates {
		if _, err := ParseDate(d); err != nil {
			return err
		}
	}
	*h = NewHolidaySet(dates...)
	return nil
}

// Config is everything stored for one doctor's availability.
type Config struct {
	Template  WeeklyTemplate     `json:"weeklyTemplate"`
	Holidays  HolidaySet         `json:"holidays"`
	Overrides map[string]DayRule `json:"dateOverrides"`
	Policy    ConsultationPolicy `json:"consultationPolicy"`
}

func DefaultConfig() Config {
	return Config{
		Template:  DefaultTemplate(),
		Holidays:  NewHolidaySet(),
		Overrides: map[string]DayRule{},
		Policy:    DefaultPolicy(),
	}
}

func (c Config) Validate() error {
	if err := c.Template.Validate(); err != nil {
		return err
	}
	for date, rule := range c.Overrides {
		if _, err := ParseDate(date); err != nil {
			return err
		}
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	for date := range c.Holidays {
		if _, err := ParseDate(date); err != nil {
			return err
		}
	}
	return c.Policy.Validate()
}

// Clone returns a deep copy, so a loaded snapshot can be handed out and
// mutated without touching the stored value.
func (c Config) Clone() Config {
	out := Config{
		Template:  c.Template,
		Holidays:  make(HolidaySet, len(c.Holidays)),
		Overrides: make(map[string]DayRule, len(c.Overrides)),
		Policy:    c.Policy,
	}
	for d := range c.Holidays {
		out.Holidays[d] = struct{}{}
	}
	for d, r := range c.Overrides {
		out.Overrides[d] = r
	}
	return out
}
