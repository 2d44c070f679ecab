package evaluation

import (
	"context"
	"time"
)

type RowQuery struct {
	SupervisorID int64
	EmployeeID   int64
	Start        *time.Time
	End          *time.Time
}

type StoreAPI interface {
	ListAspects(ctx context.Context) ([]Aspect, error)
	InsertRows(ctx context.Context, rows []Row) error
	ListRows(ctx context.Context, query RowQuery) ([]Row, error)
	LatestEvaluationDate(ctx context.Context, supervisorID int64) (time.Time, error)
	SupervisorExists(ctx context.Context, supervisorID int64) (bool, error)
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	MissingEmployees(ctx context.Context, employeeIDs []int64) ([]int64, error)
	ListRoster(ctx context.Context, supervisorID int64) ([]RosterEntry, error)
}
