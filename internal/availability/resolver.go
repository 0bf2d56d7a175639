// Package availability answers whether a candidate date and time window can
// be booked on a listing. The checks are pure and advisory: the booking API
// re-validates authoritatively before committing, so rejections here are
// reason codes, not errors.
package availability

import (
	"fmt"
	"time"

	"github.com/venuely/venue-pricing-service/internal/model"
)

// Rejection reason codes surfaced to the booking UI.
const (
	ReasonTooSoon            = "TOO_SOON"
	ReasonTooFar             = "TOO_FAR"
	ReasonBlocked            = "BLOCKED"
	ReasonClosed             = "CLOSED"
	ReasonDurationOutOfRange = "DURATION_OUT_OF_RANGE"
)

// Operating window fallback when a listing has no entry for a weekday.
const (
	DefaultOpenMin  = 9 * 60
	DefaultCloseMin = 21 * 60
)

// Decision is the outcome of one availability check.
type Decision struct {
	OK     bool
	Reason string
}

var allowed = Decision{OK: true}

// Window is a listing's bookable time range on one date, in minutes since
// midnight.
type Window struct {
	OpenMin  int
	CloseMin int
}

// CheckDate runs the date-level gates: advance-notice windows and host
// blocks. Time-of-day constraints are checked separately via DayWindow and
// CheckDuration.
func CheckDate(listing *model.Listing, blocked []model.BlockedDateRange, date, now time.Time) Decision {
	day := truncateToDay(date)

	// With zero advance notice this still rejects dates already in the past.
	earliest := now.Add(time.Duration(listing.MinAdvanceBookingHours) * time.Hour)
	if day.Before(truncateToDay(earliest)) {
		return Decision{Reason: ReasonTooSoon}
	}
	if listing.MaxAdvanceBookingDays > 0 {
		latest := truncateToDay(now).AddDate(0, 0, listing.MaxAdvanceBookingDays)
		if day.After(latest) {
			return Decision{Reason: ReasonTooFar}
		}
	}
	for i := range blocked {
		if dateWithinRange(day, blocked[i].StartDate, blocked[i].EndDate) {
			return Decision{Reason: ReasonBlocked}
		}
	}
	if DayWindow(listing, day) == nil {
		return Decision{Reason: ReasonClosed}
	}
	return allowed
}

// DayWindow resolves the operating window for the date's weekday. Listings
// without an entry for the weekday fall back to 09:00-21:00; a nil result
// means the weekday is explicitly closed.
func DayWindow(listing *model.Listing, date time.Time) *Window {
	wd := int(date.Weekday())
	for i := range listing.OperatingHours {
		oh := &listing.OperatingHours[i]
		if oh.Weekday != wd {
			continue
		}
		if oh.Closed {
			return nil
		}
		open, err := ParseClock(oh.Open)
		if err != nil {
			break
		}
		close, err := ParseClock(oh.Close)
		if err != nil || close <= open {
			break
		}
		return &Window{OpenMin: open, CloseMin: close}
	}
	return &Window{OpenMin: DefaultOpenMin, CloseMin: DefaultCloseMin}
}

// CheckDuration validates a chosen start/end against the listing's duration
// bounds and its operating window for the date.
func CheckDuration(listing *model.Listing, date time.Time, startMin, endMin int) Decision {
	w := DayWindow(listing, date)
	if w == nil {
		return Decision{Reason: ReasonClosed}
	}
	if startMin < w.OpenMin || endMin > w.CloseMin {
		return Decision{Reason: ReasonClosed}
	}
	minutes := endMin - startMin
	if minutes <= 0 {
		return Decision{Reason: ReasonDurationOutOfRange}
	}
	if minutes < listing.MinHours*60 || minutes > listing.MaxHours*60 {
		return Decision{Reason: ReasonDurationOutOfRange}
	}
	return allowed
}

// dateWithinRange treats blocked ranges as inclusive on both ends.
func dateWithinRange(day, start, end time.Time) bool {
	start = truncateToDay(start)
	end = truncateToDay(end)
	return !day.Before(start) && !day.After(end)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
