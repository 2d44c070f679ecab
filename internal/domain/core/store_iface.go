package core

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (int64, error)
	UpdateEmployee(ctx context.Context, id int64, emp Employee) (Reconciliation, error)
	ToggleEmployeeActive(ctx context.Context, id int64) (bool, error)

	ListSupervisors(ctx context.Context, active *bool) ([]Supervisor, error)
	GetSupervisor(ctx context.Context, id int64) (Supervisor, error)
	CreateSupervisor(ctx context.Context, sup Supervisor) (int64, error)
	UpdateSupervisor(ctx context.Context, id int64, sup Supervisor) error
	ToggleSupervisorActive(ctx context.Context, id int64) (bool, error)
	SetSupervisorEvaluators(ctx context.Context, id int64, userIDs []int64) (Reconciliation, error)

	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (int64, error)
	UpdateUser(ctx context.Context, id int64, user User, passwordHash string) error
	ToggleUserActive(ctx context.Context, id int64) (bool, error)
	RoleIDByName(ctx context.Context, name string) (int64, error)
}
