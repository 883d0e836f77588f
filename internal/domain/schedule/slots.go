package schedule

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type TimeSlot struct {
	Start    ClockTime `json:"start"`
	End      ClockTime `json:"end"`
	Occupied bool      `json:"occupied"`
}

// GenerateSlots splits w into consultation slots of p.DurationMinutes,
// separated by p.BreakMinutes. A slot is emitted only if it ends within w.
func GenerateSlots(w WorkingWindow, p ConsultationPolicy) ([]TimeSlot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	slots := []TimeSlot{}
	if !w.IsWorking || w.Start >= w.End {
		return slots, nil
	}

	step := p.Step()
	for cursor := w.Start; cursor.Add(p.DurationMinutes) <= w.End; cursor = cursor.Add(step) {
		slots = append(slots, TimeSlot{
			Start: cursor,
			End:   cursor.Add(p.DurationMinutes),
		})
	}

	if err := checkSlots(slots, w); err != nil {
		return nil, err
	}
	return slots, nil
}

func checkSlots(slots []TimeSlot, w WorkingWindow) error {
	for i, s := range slots {
		if s.Start < w.Start || s.End > w.End || s.Start >= s.End {
			return httperr.ErrInvariant("slot_outside_window")
		}
		if i > 0 && s.Start < slots[i-1].End {
			return httperr.ErrInvariant("slots_overlap")
		}
	}
	return nil
}

// FindSlot returns the index of the slot starting exactly at start, or -1.
func FindSlot(slots []TimeSlot, start ClockTime) int {
	for i, s := range slots {
		if s.Start == start {
			return i
		}
	}
	return -1
}
