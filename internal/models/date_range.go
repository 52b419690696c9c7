package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ParseDateRange accepts YYYY-MM-DD or RFC 3339 values. A bare end date
// covers the whole day. Missing values default to the month containing now.
func ParseDateRange(startStr, endStr string, now time.Time) (DateRange, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	r := DateRange{
		Start: monthStart,
		End:   monthStart.AddDate(0, 1, 0).Add(-time.Millisecond),
	}

	if startStr != "" {
		t, _, err := parseDate(startStr, now.Location())
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: startDate: %v", ErrInvalidInput, err)
		}
		r.Start = t
	}
	if endStr != "" {
		t, dateOnly, err := parseDate(endStr, now.Location())
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: endDate: %v", ErrInvalidInput, err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
		r.End = t
	}

	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return r, nil
}

func parseDate(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	return t, false, nil
}
