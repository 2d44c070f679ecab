package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Options struct {
	MaxRawScore int
	Denominator float64
	Location    *time.Location
	Now         func() time.Time
}

type Service struct {
	store       StoreAPI
	maxRawScore int
	denominator float64
	location    *time.Location
	now         func() time.Time
}

func New(store StoreAPI, opts Options) *Service {
	s := &Service{
		store:       store,
		maxRawScore: opts.MaxRawScore,
		denominator: opts.Denominator,
		location:    opts.Location,
		now:         opts.Now,
	}
	if s.maxRawScore <= 0 {
		s.maxRawScore = DefaultMaxRawScore
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type AspectReport struct {
	Window  *Window       `json:"window,omitempty"`
	Aspects []AspectScore `json:"aspects"`
}

type SupervisorReport struct {
	Window      *Window           `json:"window,omitempty"`
	Supervisors []SupervisorScore `json:"supervisors"`
}

func (s *Service) MaxRawScore() int {
	return s.maxRawScore
}

func (s *Service) Catalog(ctx context.Context) (Catalog, error) {
	aspects, err := s.store.ListAspects(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("load aspect catalog: %w", err)
	}
	return NewCatalog(aspects), nil
}

func (s *Service) policy(catalog Catalog) Policy {
	return NewPolicy(catalog.Size(), s.maxRawScore, s.denominator)
}

func (s *Service) today() time.Time {
	return truncateDay(s.now().In(s.location))
}

// RecordBatch stores one row per (submission, aspect) dated today. Either every
// row of the batch is persisted or none is.
func (s *Service) RecordBatch(ctx context.Context, supervisorID int64, subs []Submission) (RecordResult, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return RecordResult{}, err
	}

	date := s.today()
	rows, err := BuildRows(catalog, supervisorID, date, subs, s.maxRawScore)
	if err != nil {
		return RecordResult{}, err
	}

	exists, err := s.store.SupervisorExists(ctx, supervisorID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("lookup supervisor: %w", err)
	}
	if !exists {
		return RecordResult{}, ErrSupervisorNotFound
	}

	ids := make([]int64, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.EmployeeID)
	}
	missing, err := s.store.MissingEmployees(ctx, ids)
	if err != nil {
		return RecordResult{}, fmt.Errorf("lookup employees: %w", err)
	}
	if len(missing) > 0 {
		return RecordResult{}, invalid("payload", "unknown employee ids %s", joinIDs(missing))
	}

	if err := s.store.InsertRows(ctx, rows); err != nil {
		return RecordResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return RecordResult{
		SupervisorID: supervisorID,
		Date:         date,
		Submissions:  len(subs),
		Rows:         len(rows),
		EmployeeIDs:  ids,
	}, nil
}

// LatestMonthReport scores the supervisor's employees over the most recent
// calendar month that has any evaluation by that supervisor.
func (s *Service) LatestMonthReport(ctx context.Context, supervisorID int64) (EmployeeReport, error) {
	if supervisorID <= 0 {
		return EmployeeReport{}, invalid("encargado_id", "is required")
	}
	if err := s.requireSupervisor(ctx, supervisorID); err != nil {
		return EmployeeReport{}, err
	}

	latest, err := s.store.LatestEvaluationDate(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, ErrNoEvaluationsFound) {
			return EmployeeReport{}, err
		}
		return EmployeeReport{}, fmt.Errorf("latest evaluation date: %w", err)
	}
	window, err := MostRecentMonth(latest)
	if err != nil {
		return EmployeeReport{}, err
	}
	return s.employeeReport(ctx, supervisorID, &window)
}

// AllTimeReport scores every active employee over all recorded evaluations.
func (s *Service) AllTimeReport(ctx context.Context) (EmployeeReport, error) {
	return s.employeeReport(ctx, 0, nil)
}

// WindowReport scores employees inside an explicit period, optionally limited
// to one supervisor.
func (s *Service) WindowReport(ctx context.Context, supervisorID int64, kind, value string) (EmployeeReport, error) {
	window, err := ResolveWindow(kind, value, s.today().Year())
	if err != nil {
		return EmployeeReport{}, err
	}
	if supervisorID > 0 {
		if err := s.requireSupervisor(ctx, supervisorID); err != nil {
			return EmployeeReport{}, err
		}
	}
	return s.employeeReport(ctx, supervisorID, &window)
}

func (s *Service) employeeReport(ctx context.Context, supervisorID int64, window *Window) (EmployeeReport, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return EmployeeReport{}, err
	}
	rows, err := s.store.ListRows(ctx, rowQuery(supervisorID, 0, window))
	if err != nil {
		return EmployeeReport{}, fmt.Errorf("list evaluation rows: %w", err)
	}
	roster, err := s.store.ListRoster(ctx, supervisorID)
	if err != nil {
		return EmployeeReport{}, fmt.Errorf("list roster: %w", err)
	}
	return AggregateByEmployee(rows, s.policy(catalog), Filter{
		Window:       window,
		SupervisorID: supervisorID,
		Roster:       roster,
	}), nil
}

// OptionalWindow resolves a window only when a period was supplied.
func (s *Service) OptionalWindow(kind, value string) (*Window, error) {
	if strings.TrimSpace(kind) == "" && strings.TrimSpace(value) == "" {
		return nil, nil
	}
	window, err := ResolveWindow(kind, value, s.today().Year())
	if err != nil {
		return nil, err
	}
	return &window, nil
}

func (s *Service) AspectReport(ctx context.Context, kind, value string) (AspectReport, error) {
	window, err := s.OptionalWindow(kind, value)
	if err != nil {
		return AspectReport{}, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return AspectReport{}, err
	}
	rows, err := s.store.ListRows(ctx, rowQuery(0, 0, window))
	if err != nil {
		return AspectReport{}, fmt.Errorf("list evaluation rows: %w", err)
	}
	return AspectReport{
		Window:  window,
		Aspects: AggregateByAspect(rows, catalog, s.maxRawScore, window),
	}, nil
}

func (s *Service) SupervisorReport(ctx context.Context, kind, value string) (SupervisorReport, error) {
	window, err := s.OptionalWindow(kind, value)
	if err != nil {
		return SupervisorReport{}, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return SupervisorReport{}, err
	}
	rows, err := s.store.ListRows(ctx, rowQuery(0, 0, window))
	if err != nil {
		return SupervisorReport{}, fmt.Errorf("list evaluation rows: %w", err)
	}
	return SupervisorReport{
		Window:      window,
		Supervisors: AggregateBySupervisor(rows, s.policy(catalog), window),
	}, nil
}

// EmployeeReportFor returns the employee report for an optional period, used
// by exports.
func (s *Service) EmployeeReportFor(ctx context.Context, kind, value string) (EmployeeReport, error) {
	window, err := s.OptionalWindow(kind, value)
	if err != nil {
		return EmployeeReport{}, err
	}
	return s.employeeReport(ctx, 0, window)
}

func (s *Service) EmployeeDetail(ctx context.Context, employeeID int64, kind, value string) (EmployeeDetail, error) {
	if employeeID <= 0 {
		return EmployeeDetail{}, invalid("id", "must be a positive integer")
	}
	window, err := s.OptionalWindow(kind, value)
	if err != nil {
		return EmployeeDetail{}, err
	}
	exists, err := s.store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return EmployeeDetail{}, fmt.Errorf("lookup employee: %w", err)
	}
	if !exists {
		return EmployeeDetail{}, ErrEmployeeNotFound
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return EmployeeDetail{}, err
	}
	rows, err := s.store.ListRows(ctx, rowQuery(0, employeeID, window))
	if err != nil {
		return EmployeeDetail{}, fmt.Errorf("list evaluation rows: %w", err)
	}
	return BuildEmployeeDetail(rows, s.policy(catalog), employeeID, window), nil
}

func (s *Service) requireSupervisor(ctx context.Context, supervisorID int64) error {
	exists, err := s.store.SupervisorExists(ctx, supervisorID)
	if err != nil {
		return fmt.Errorf("lookup supervisor: %w", err)
	}
	if !exists {
		return ErrSupervisorNotFound
	}
	return nil
}

func rowQuery(supervisorID, employeeID int64, window *Window) RowQuery {
	q := RowQuery{SupervisorID: supervisorID, EmployeeID: employeeID}
	if window != nil {
		start, end := window.Start, window.End
		q.Start, q.End = &start, &end
	}
	return q
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
