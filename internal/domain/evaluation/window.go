package evaluation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ResolveWindow turns a period kind and value into an inclusive date range.
// Bare month and week numbers are interpreted in referenceYear. Out-of-range
// values are rejected, never clamped.
func ResolveWindow(kind, value string, referenceYear int) (Window, error) {
	normalized, ok := periodAliases[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return Window{}, invalid("periodKind", "must be one of year, month, week")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Window{}, invalid("periodValue", "is required")
	}

	switch normalized {
	case PeriodYear:
		year, err := parseYear(value)
		if err != nil {
			return Window{}, err
		}
		return YearWindow(year), nil
	case PeriodMonth:
		year, rest := referenceYear, value
		if y, m, found := strings.Cut(value, "-"); found {
			parsed, err := parseYear(y)
			if err != nil {
				return Window{}, err
			}
			year, rest = parsed, m
		} else if err := checkYear(year); err != nil {
			return Window{}, err
		}
		month, ok := parseNumber(rest)
		if !ok || month < 1 || month > 12 {
			return Window{}, invalid("month", "must be between 1 and 12")
		}
		return MonthWindow(year, time.Month(month)), nil
	default:
		year, rest := referenceYear, value
		upper := strings.ToUpper(value)
		if y, w, found := strings.Cut(upper, "-W"); found {
			parsed, err := parseYear(y)
			if err != nil {
				return Window{}, err
			}
			year, rest = parsed, w
		} else if err := checkYear(year); err != nil {
			return Window{}, err
		}
		week, ok := parseNumber(rest)
		if !ok || week < 1 || week > 53 {
			return Window{}, invalid("week", "must be between 1 and 53")
		}
		if weeks := ISOWeeksInYear(year); week > weeks {
			return Window{}, invalid("week", "year %d has only %d ISO weeks", year, weeks)
		}
		return WeekWindow(year, week), nil
	}
}

func YearWindow(year int) Window {
	return Window{
		Kind:  PeriodYear,
		Label: strconv.Itoa(year),
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{
		Kind:  PeriodMonth,
		Label: start.Format("2006-01"),
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// WeekWindow returns the Monday..Sunday range of an ISO week.
func WeekWindow(year, week int) Window {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	start := jan4.AddDate(0, 0, -offset+7*(week-1))
	return Window{
		Kind:  PeriodWeek,
		Label: fmt.Sprintf("%04d-W%02d", year, week),
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

func ISOWeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// MostRecentMonth returns the calendar month of the latest of dates. Dates of
// absent rows count as data, so callers pass every row's date.
func MostRecentMonth(dates ...time.Time) (Window, error) {
	var latest time.Time
	for _, d := range dates {
		if d.After(latest) {
			latest = d
		}
	}
	if latest.IsZero() {
		return Window{}, ErrNoEvaluationsFound
	}
	return MonthWindow(latest.Year(), latest.Month()), nil
}

func (w Window) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	year, ok := parseNumber(raw)
	if !ok || len(raw) != 4 {
		return 0, invalid("year", "must be a four digit year")
	}
	return year, checkYear(year)
}

func checkYear(year int) error {
	if year < MinWindowYear || year > MaxWindowYear {
		return invalid("year", "must be between %d and %d", MinWindowYear, MaxWindowYear)
	}
	return nil
}

// parseNumber accepts unsigned decimal digits only.
func parseNumber(raw string) (int, bool) {
	if raw == "" || len(raw) > 9 {
		return 0, false
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
