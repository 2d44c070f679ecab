package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	cases := []struct {
		name  string
		kind  string
		value string
		start string
		end   string
		label string
	}{
		{"bare month uses reference year", "month", "3", "2024-03-01", "2024-03-31", "2024-03"},
		{"qualified month", "month", "2023-11", "2023-11-01", "2023-11-30", "2023-11"},
		{"leap february", "mes", "2024-02", "2024-02-01", "2024-02-29", "2024-02"},
		{"year", "year", "2022", "2022-01-01", "2022-12-31", "2022"},
		{"year alias", "anio", "2030", "2030-01-01", "2030-12-31", "2030"},
		{"first iso week starts on monday", "week", "2024-W01", "2024-01-01", "2024-01-07", "2024-W01"},
		{"bare week", "semana", "12", "2024-03-18", "2024-03-24", "2024-W12"},
		{"week one in previous calendar year", "week", "2020-W01", "2019-12-30", "2020-01-05", "2020-W01"},
		{"week 53 in a long year", "week", "2020-W53", "2020-12-28", "2021-01-03", "2020-W53"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := ResolveWindow(tc.kind, tc.value, 2024)
			require.NoError(t, err)
			assert.Equal(t, day(tc.start), w.Start)
			assert.Equal(t, day(tc.end), w.End)
			assert.Equal(t, tc.label, w.Label)
		})
	}
}

func TestResolveWindowRejects(t *testing.T) {
	cases := []struct {
		name  string
		kind  string
		value string
		ref   int
		field string
	}{
		{"unknown kind", "day", "1", 2024, "periodKind"},
		{"empty value", "month", " ", 2024, "periodValue"},
		{"month 13", "month", "13", 2024, "month"},
		{"month 0", "month", "2024-00", 2024, "month"},
		{"month not a number", "month", "marzo", 2024, "month"},
		{"year below range", "year", "1999", 2024, "year"},
		{"year above range", "year", "2101", 2024, "year"},
		{"short year", "year", "24", 2024, "year"},
		{"reference year out of range", "month", "3", 1990, "year"},
		{"week 0", "week", "0", 2024, "week"},
		{"week 54", "week", "2020-W54", 2024, "week"},
		{"week 53 in a short year", "week", "2024-W53", 2024, "week"},
		{"bare week 53 in a short year", "week", "53", 2023, "week"},
		{"signed month", "month", "+3", 2024, "month"},
		{"signed month with year", "month", "2024-+3", 2024, "month"},
		{"signed week", "week", "2024-W+5", 2024, "week"},
		{"negative week", "week", "-5", 2024, "week"},
		{"signed year", "year", "+202", 2024, "year"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveWindow(tc.kind, tc.value, tc.ref)
			verr, ok := IsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestISOWeeksInYear(t *testing.T) {
	assert.Equal(t, 53, ISOWeeksInYear(2020))
	assert.Equal(t, 52, ISOWeeksInYear(2023))
	assert.Equal(t, 52, ISOWeeksInYear(2024))
	assert.Equal(t, 53, ISOWeeksInYear(2026))
}

func TestWindowContainsIsInclusive(t *testing.T) {
	w := MonthWindow(2024, 3)
	assert.True(t, w.Contains(day("2024-03-01")))
	assert.True(t, w.Contains(day("2024-03-31").Add(23*time.Hour)))
	assert.False(t, w.Contains(day("2024-02-29")))
	assert.False(t, w.Contains(day("2024-04-01")))
}

func TestMostRecentMonth(t *testing.T) {
	catalog := uniformCatalog(2, 1.0)
	rows := concat(
		evaluate(catalog, 1, 1, "2024-02-10", 5, false),
		evaluate(catalog, 1, 1, "2024-03-05", 0, true),
	)

	dates := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		dates = append(dates, r.EvaluationDate)
	}

	w, err := MostRecentMonth(dates...)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", w.Label)
	assert.Equal(t, day("2024-03-31"), w.End)

	_, err = MostRecentMonth()
	assert.ErrorIs(t, err, ErrNoEvaluationsFound)

	_, err = MostRecentMonth(time.Time{})
	assert.ErrorIs(t, err, ErrNoEvaluationsFound)
}
