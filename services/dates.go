package services

import (
	"strings"
	"time"

	"band-backend/apperrors"
)

var dateOnlyLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// EventTime is a parsed performance date.
type EventTime struct {
	Time     time.Time
	DateOnly bool
}

// ParseEventDate parses the accepted date formats in loc. Date-only values
// land on midnight of that calendar day.
func ParseEventDate(raw string, loc *time.Location) (EventTime, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return EventTime{Time: t, DateOnly: true}, nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return EventTime{Time: t}, nil
		}
	}
	return EventTime{}, apperrors.Validation("Date must be a valid date (for example 2025-06-21)")
}

// IsUpcoming compares calendar days for date-only values, so an event dated
// today stays upcoming all day; timed values compare as instants.
func (e EventTime) IsUpcoming(now time.Time) bool {
	if e.DateOnly {
		now = now.In(e.Time.Location())
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return !e.Time.Before(today)
	}
	return !e.Time.Before(now)
}
