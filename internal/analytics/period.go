// Package analytics derives dashboard views from a list of transactions.
//
// Every function in this package is pure: inputs are never mutated, nothing
// is cached between calls, and no I/O is performed. Callers may invoke them
// concurrently without coordination.
package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	PeriodWeek   PeriodKind = "week"
	PeriodMonth  PeriodKind = "month"
	PeriodYear   PeriodKind = "year"
	PeriodCustom PeriodKind = "custom"
)

var (
	ErrInvalidSelector = errors.New("invalid period selector")
	ErrInvalidBudget   = errors.New("invalid budget")
)

type (
	PeriodKind string

	// PeriodSelector is the caller's choice of time window. Start and End are
	// only read for PeriodCustom.
	PeriodSelector struct {
		Kind  PeriodKind `json:"kind"`
		Start time.Time  `json:"startDate,omitempty"`
		End   time.Time  `json:"endDate,omitempty"`
	}

	// DateRange is an inclusive [Start, End] instant range.
	DateRange struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
)

// ParsePeriodKind maps a query value to a PeriodKind. Empty input means month.
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch k := PeriodKind(s); k {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidSelector, s)
	}
}

// DayLayout is the calendar-day format accepted by ParseSelector.
const DayLayout = "2006-01-02"

// ParseSelector builds a selector from user input. start and end are whole
// days in loc and only read for a custom kind; end covers its entire day.
func ParseSelector(kind, start, end string, loc *time.Location) (PeriodSelector, error) {
	k, err := ParsePeriodKind(strings.ToLower(strings.TrimSpace(kind)))
	if err != nil {
		return PeriodSelector{}, err
	}
	sel := PeriodSelector{Kind: k}
	if k != PeriodCustom {
		return sel, nil
	}

	if start = strings.TrimSpace(start); start != "" {
		if sel.Start, err = time.ParseInLocation(DayLayout, start, loc); err != nil {
			return PeriodSelector{}, fmt.Errorf("%w: invalid start date %q", ErrInvalidSelector, start)
		}
	}
	if end = strings.TrimSpace(end); end != "" {
		day, err := time.ParseInLocation(DayLayout, end, loc)
		if err != nil {
			return PeriodSelector{}, fmt.Errorf("%w: invalid end date %q", ErrInvalidSelector, end)
		}
		sel.End = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return sel, nil
}

// Resolve turns a selector into a concrete range anchored at now. Weeks start
// on Sunday. All boundaries are computed in now's location.
func Resolve(sel PeriodSelector, now time.Time) (DateRange, error) {
	loc := now.Location()
	switch sel.Kind {
	case PeriodWeek:
		y, m, d := now.Date()
		start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}, nil
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}, nil
	case PeriodCustom:
		if sel.Start.IsZero() || sel.End.IsZero() {
			return DateRange{}, fmt.Errorf("%w: custom period needs both start and end", ErrInvalidSelector)
		}
		if sel.Start.After(sel.End) {
			return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidSelector,
				sel.Start.Format(time.RFC3339), sel.End.Format(time.RFC3339))
		}
		return DateRange{Start: sel.Start, End: sel.End}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSelector, sel.Kind)
	}
}

// Span is the inclusive length of the range: End - Start plus one nanosecond.
func (r DateRange) Span() time.Duration {
	return r.End.Sub(r.Start) + time.Nanosecond
}

// Contains reports whether t lies within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Previous returns the equal-length window that ends one nanosecond before
// r.Start.
func (r DateRange) Previous() DateRange {
	span := r.Span()
	return DateRange{Start: r.Start.Add(-span), End: r.End.Add(-span)}
}
