package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrPeriodRequired is returned when a report is requested without a week or a month.
var ErrPeriodRequired = errors.New("a week or a month is required")

// PeriodKind is the wire name of a period filter.
type PeriodKind string

const (
	PeriodWeek  PeriodKind = "semaine"
	PeriodMonth PeriodKind = "mois"
)

// Period is an inclusive range of calendar days.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Week covers start and the six days after it.
func Week(start time.Time) Period {
	s := day(start)
	return Period{Kind: PeriodWeek, Start: s, End: s.AddDate(0, 0, 6)}
}

// Month covers every day of the given month.
func Month(year int, month time.Month) Period {
	s := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: PeriodMonth, Start: s, End: s.AddDate(0, 1, -1)}
}

// ParseWeek reads the first day of a week as YYYY-MM-DD.
func ParseWeek(s string) (Period, error) {
	t, err := time.Parse(openapi_types.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("invalid week start %q: %w", s, err)
	}
	return Week(t), nil
}

// ParseMonth reads a month as YYYY-MM.
func ParseMonth(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month(t.Year(), t.Month()), nil
}

// Contains reports whether the calendar day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	switch p.Kind {
	case PeriodMonth:
		return string(p.Kind) + " " + p.Start.Format("2006-01")
	default:
		return fmt.Sprintf("%s %s..%s", p.Kind, p.Start.Format(openapi_types.DateFormat), p.End.Format(openapi_types.DateFormat))
	}
}
