package repository

import (
	"encoding/json"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// dayRecord is a stored day rule before parsing.
type dayRecord struct {
	Start   string `json:"startTime"`
	End     string `json:"endTime"`
	Working bool   `json:"isWorking"`
}

// scheduleRecord is a doctor schedule as read from storage, before any field
// is trusted. Every driver fills one and calls build, so all of them share the
// same parse-or-default rules.
type scheduleRecord struct {
	Policy    *schedule.ConsultationPolicy
	Weekly    map[schedule.Weekday]dayRecord
	Overrides map[string]dayRecord
	Holidays  []string
}

// build starts from the defaults and keeps every stored part that parses.
// An unreadable day rule keeps the default for that day, an unreadable
// override or holiday is dropped, and an invalid policy falls back to the
// default policy.
func (rec scheduleRecord) build() schedule.Config {
	cfg := schedule.DefaultConfig()

	if rec.Policy != nil && rec.Policy.Validate() == nil {
		cfg.Policy = *rec.Policy
	}

	for d, day := range rec.Weekly {
		if d < schedule.Monday || d > schedule.Sunday {
			continue
		}
		if rule, ok := ruleFromRow(day.Start, day.End, day.Working); ok {
			cfg.Template[d] = rule
		}
	}

	for date, day := range rec.Overrides {
		if _, err := schedule.ParseDate(date); err != nil {
			continue
		}
		if rule, ok := ruleFromRow(day.Start, day.End, day.Working); ok {
			cfg.Overrides[date] = rule
		}
	}

	for _, date := range rec.Holidays {
		if _, err := schedule.ParseDate(date); err == nil {
			cfg.Holidays[date] = struct{}{}
		}
	}

	return cfg
}

func ruleFromRow(start, end string, working bool) (schedule.DayRule, bool) {
	s, err := schedule.ParseClock(start)
	if err != nil {
		return schedule.DayRule{}, false
	}
	e, err := schedule.ParseClock(end)
	if err != nil {
		return schedule.DayRule{}, false
	}

	rule := schedule.DayRule{Start: s, End: e, IsWorking: working}
	if rule.Validate() != nil {
		return schedule.DayRule{}, false
	}
	return rule, true
}

// decodeScheduleDocument reads what it can from a schedule stored as one
// JSON document. Each section and entry is decoded on its own so a bad one
// cannot spoil the others. A document that is not a JSON object yields an
// empty record, which builds to the defaults.
func decodeScheduleDocument(raw []byte) scheduleRecord {
	rec := scheduleRecord{
		Weekly:    map[schedule.Weekday]dayRecord{},
		Overrides: map[string]dayRecord{},
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return rec
	}

	if section, ok := doc["consultationPolicy"]; ok {
		p := schedule.DefaultPolicy()
		if err := json.Unmarshal(section, &p); err == nil {
			rec.Policy = &p
		}
	}

	var template map[string]json.RawMessage
	if json.Unmarshal(doc["weeklyTemplate"], &template) == nil {
		for name, entry := range template {
			d, err := schedule.ParseWeekday(name)
			if err != nil {
				continue
			}
			var day dayRecord
			if json.Unmarshal(entry, &day) == nil {
				rec.Weekly[d] = day
			}
		}
	}

	var overrides map[string]json.RawMessage
	if json.Unmarshal(doc["dateOverrides"], &overrides) == nil {
		for date, entry := range overrides {
			var day dayRecord
			if json.Unmarshal(entry, &day) == nil {
				rec.Overrides[date] = day
			}
		}
	}

	var holidays []json.RawMessage
	if json.Unmarshal(doc["holidays"], &holidays) == nil {
		for _, entry := range holidays {
			var date string
			if json.Unmarshal(entry, &date) == nil {
				rec.Holidays = append(rec.Holidays, date)
			}
		}
	}

	return rec
}
