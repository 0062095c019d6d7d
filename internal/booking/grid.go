package booking

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrInvalidDate  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidHours = errors.New("open hour must be before close hour")

	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseDate parses a strict YYYY-MM-DD calendar day at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return day, nil
}

// Slot is one hour of a day grid.
type Slot struct {
	Label string
	Interval
}

// DaySlots builds one-hour slots starting at openHour, the last one starting at closeHour-1.
func DaySlots(day time.Time, openHour, closeHour int) ([]Slot, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, ErrInvalidHours
	}
	loc := day.Location()
	y, m, d := day.Date()

	slots := make([]Slot, 0, closeHour-openHour)
	for hour := openHour; hour < closeHour; hour++ {
		start := time.Date(y, m, d, hour, 0, 0, 0, loc)
		slots = append(slots, Slot{
			Label:    fmt.Sprintf("%02d:00", hour),
			Interval: Interval{Start: start, End: start.Add(time.Hour)},
		})
	}
	return slots, nil
}

// DayBounds returns the first and last instant of the calendar day containing day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
