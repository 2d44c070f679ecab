package evaluation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	aspects     []Aspect
	rows        []Row
	supervisors map[int64]bool
	employees   map[int64]string
	roster      map[int64][]int64
	insertErr   error
	aspectLoads int
	insertCalls int
}

func newFakeStore(catalog Catalog) *fakeStore {
	return &fakeStore{
		aspects:     catalog.Aspects(),
		supervisors: map[int64]bool{10: true, 11: true},
		employees:   map[int64]string{1: "Ana", 2: "Luis", 3: "Marta"},
		roster:      map[int64][]int64{10: {1, 2}, 11: {3}},
	}
}

func (f *fakeStore) ListAspects(ctx context.Context) ([]Aspect, error) {
	f.aspectLoads++
	return f.aspects, nil
}

func (f *fakeStore) InsertRows(ctx context.Context, rows []Row) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeStore) ListRows(ctx context.Context, q RowQuery) ([]Row, error) {
	var out []Row
	for _, r := range f.rows {
		if q.SupervisorID > 0 && r.SupervisorID != q.SupervisorID {
			continue
		}
		if q.EmployeeID > 0 && r.EmployeeID != q.EmployeeID {
			continue
		}
		if q.Start != nil && r.EvaluationDate.Before(*q.Start) {
			continue
		}
		if q.End != nil && r.EvaluationDate.After(*q.End) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) LatestEvaluationDate(ctx context.Context, supervisorID int64) (time.Time, error) {
	rows, _ := f.ListRows(ctx, RowQuery{SupervisorID: supervisorID})
	var latest time.Time
	for _, r := range rows {
		if r.EvaluationDate.After(latest) {
			latest = r.EvaluationDate
		}
	}
	if latest.IsZero() {
		return time.Time{}, ErrNoEvaluationsFound
	}
	return latest, nil
}

func (f *fakeStore) SupervisorExists(ctx context.Context, id int64) (bool, error) {
	return f.supervisors[id], nil
}

func (f *fakeStore) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.employees[id]
	return ok, nil
}

func (f *fakeStore) MissingEmployees(ctx context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if _, ok := f.employees[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *fakeStore) ListRoster(ctx context.Context, supervisorID int64) ([]RosterEntry, error) {
	var ids []int64
	if supervisorID > 0 {
		ids = f.roster[supervisorID]
	} else {
		for id := range f.employees {
			ids = append(ids, id)
		}
	}
	out := make([]RosterEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, RosterEntry{ID: id, Name: f.employees[id]})
	}
	return out, nil
}

func fixedClock(raw string) func() time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func fullScores(catalog Catalog, raw int) map[string]int {
	out := map[string]int{}
	for _, a := range catalog.Aspects() {
		out[a.Text] = raw
	}
	return out
}

func TestRecordBatchPersistsOneRowPerAspect(t *testing.T) {
	catalog := uniformCatalog(9, 1.0)
	store := newFakeStore(catalog)
	svc := New(store, Options{Now: fixedClock("2024-03-14T23:30:00Z")})

	result, err := svc.RecordBatch(context.Background(), 10, []Submission{
		{EmployeeID: 1, Scores: fullScores(catalog, 4), Comments: []string{"ok"}},
		{EmployeeID: 2, Scores: map[string]int{}, Absent: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Submissions)
	assert.Equal(t, 18, result.Rows)
	assert.Equal(t, day("2024-03-14"), result.Date)
	assert.Equal(t, []int64{1, 2}, result.EmployeeIDs)
	assert.Len(t, store.rows, 18)
	assert.Equal(t, 1, store.aspectLoads, "catalog is loaded once per call")
}

func TestRecordBatchUsesConfiguredTimeZone(t *testing.T) {
	catalog := uniformCatalog(1, 1.0)
	store := newFakeStore(catalog)
	loc := time.FixedZone("UTC-6", -6*3600)
	svc := New(store, Options{Now: fixedClock("2024-03-15T03:00:00Z"), Location: loc})

	result, err := svc.RecordBatch(context.Background(), 10, []Submission{{EmployeeID: 1, Scores: map[string]int{}}})
	require.NoError(t, err)
	assert.Equal(t, day("2024-03-14"), result.Date)
}

func TestRecordBatchPersistenceFailure(t *testing.T) {
	catalog := uniformCatalog(9, 1.0)
	store := newFakeStore(catalog)
	store.insertErr = errors.New("connection reset")
	svc := New(store, Options{})

	_, err := svc.RecordBatch(context.Background(), 10, []Submission{{EmployeeID: 1, Scores: fullScores(catalog, 5)}})
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, store.rows)
}

func TestRecordBatchRejectsBeforeWriting(t *testing.T) {
	catalog := uniformCatalog(9, 1.0)
	store := newFakeStore(catalog)
	svc := New(store, Options{})
	ctx := context.Background()

	_, err := svc.RecordBatch(ctx, 10, []Submission{{EmployeeID: 1, Scores: fullScores(catalog, 5)}, {EmployeeID: 2}})
	assert.ErrorIs(t, err, ErrIncompleteSubmission)

	_, err = svc.RecordBatch(ctx, 99, []Submission{{EmployeeID: 1, Scores: fullScores(catalog, 5)}})
	assert.ErrorIs(t, err, ErrSupervisorNotFound)

	_, err = svc.RecordBatch(ctx, 10, []Submission{{EmployeeID: 77, Scores: fullScores(catalog, 5)}})
	verr, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "payload", verr.Field)

	assert.Equal(t, 0, store.insertCalls)
}

func TestLatestMonthReport(t *testing.T) {
	catalog := uniformCatalog(9, 1.0)
	store := newFakeStore(catalog)
	store.rows = concat(
		evaluate(catalog, 1, 10, "2024-02-20", 1, false),
		evaluate(catalog, 1, 10, "2024-03-04", 5, false),
		evaluate(catalog, 2, 10, "2024-03-05", 0, true),
		evaluate(catalog, 3, 11, "2024-04-01", 5, false),
	)
	svc := New(store, Options{})

	report, err := svc.LatestMonthReport(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, report.Window)
	assert.Equal(t, "2024-03", report.Window.Label)
	require.Len(t, report.Employees, 2)

	assert.Equal(t, int64(1), report.Employees[0].EmployeeID)
	require.NotNil(t, report.Employees[0].Score)
	assert.Equal(t, 100.0, *report.Employees[0].Score)
	assert.True(t, report.Employees[1].Absent)
	assert.Nil(t, report.Employees[1].Score)
	require.NotNil(t, report.GeneralAverage)
	assert.Equal(t, 100.0, *report.GeneralAverage)
}

func TestLatestMonthReportErrors(t *testing.T) {
	catalog := uniformCatalog(9, 1.0)
	svc := New(newFakeStore(catalog), Options{})
	ctx := context.Background()

	_, err := svc.LatestMonthReport(ctx, 10)
	assert.ErrorIs(t, err, ErrNoEvaluationsFound)

	_, err = svc.LatestMonthReport(ctx, 99)
	assert.ErrorIs(t, err, ErrSupervisorNotFound)

	_, err = svc.LatestMonthReport(ctx, 0)
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestWindowReportValidatesPeriod(t *testing.T) {
	svc := New(newFakeStore(uniformCatalog(9, 1.0)), Options{Now: fixedClock("2024-06-01T10:00:00Z")})

	_, err := svc.WindowReport(context.Background(), 10, "week", "53")
	verr, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "week", verr.Field)

	report, err := svc.WindowReport(context.Background(), 0, "month", "5")
	require.NoError(t, err)
	assert.Equal(t, "2024-05", report.Window.Label)
	assert.Nil(t, report.GeneralAverage)
}

func TestOptionalWindow(t *testing.T) {
	svc := New(newFakeStore(uniformCatalog(1, 1.0)), Options{Now: fixedClock("2024-06-01T10:00:00Z")})

	w, err := svc.OptionalWindow("", "")
	require.NoError(t, err)
	assert.Nil(t, w)

	_, err = svc.OptionalWindow("month", "")
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestEmployeeDetailUnknownEmployee(t *testing.T) {
	svc := New(newFakeStore(uniformCatalog(9, 1.0)), Options{})

	_, err := svc.EmployeeDetail(context.Background(), 404, "", "")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
