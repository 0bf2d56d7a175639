package availability

import (
	"time"

	"github.com/venuely/venue-pricing-service/internal/model"
)

// Slot generation steps. End slots keep a fixed 60-minute floor after the
// chosen start regardless of the listing's MinHours; duration bounds are
// enforced separately by CheckDuration.
const (
	SlotStepMin   = 30
	MinSlotGapMin = 60
)

// StartSlots lists the selectable start times for a date in 30-minute
// increments across the operating window. The last start leaves room for the
// minimum 60-minute booking. Returns nil when the weekday is closed.
func StartSlots(listing *model.Listing, date time.Time) []string {
	w := DayWindow(listing, date)
	if w == nil {
		return nil
	}
	var slots []string
	for m := w.OpenMin; m+MinSlotGapMin <= w.CloseMin; m += SlotStepMin {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// EndSlots lists the selectable end times after the chosen start, at least
// 60 minutes later, up to the close of the operating window.
func EndSlots(listing *model.Listing, date time.Time, start string) []string {
	w := DayWindow(listing, date)
	if w == nil {
		return nil
	}
	startMin, err := ParseClock(start)
	if err != nil || startMin < w.OpenMin {
		return nil
	}
	var slots []string
	for m := startMin + MinSlotGapMin; m <= w.CloseMin; m += SlotStepMin {
		slots = append(slots, FormatClock(m))
	}
	return slots
}
