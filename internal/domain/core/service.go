package core

import (
	"context"
	"log/slog"
	"strings"

	"perfeval/internal/domain/auth"
	"perfeval/internal/domain/notifications"
)

// Notifier receives assignment and status events for supervisors.
type Notifier interface {
	Notify(ctx context.Context, supervisorIDs []int64, employeeID int64, action int)
}

type Service struct {
	store    StoreAPI
	notifier Notifier
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

func (s *Service) notify(ctx context.Context, supervisorIDs []int64, employeeID int64, action int) {
	if s.notifier == nil || len(supervisorIDs) == 0 {
		return
	}
	s.notifier.Notify(ctx, supervisorIDs, employeeID, action)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	emp = normalizeEmployee(emp)
	id, err := s.store.CreateEmployee(ctx, emp)
	if err != nil {
		return Employee{}, err
	}
	emp.ID = id
	emp.Active = true
	s.notify(ctx, emp.SupervisorIDs, id, notifications.ActionEmployeeAssigned)
	return emp, nil
}

// UpdateEmployee saves the profile and reconciles supervisor assignments in
// one transaction, then notifies the supervisors that gained or lost the
// employee.
func (s *Service) UpdateEmployee(ctx context.Context, id int64, emp Employee) (Reconciliation, error) {
	emp = normalizeEmployee(emp)
	rec, err := s.store.UpdateEmployee(ctx, id, emp)
	if err != nil {
		return Reconciliation{}, err
	}
	s.notify(ctx, rec.Added, id, notifications.ActionEmployeeAssigned)
	s.notify(ctx, rec.Removed, id, notifications.ActionEmployeeUnassigned)
	return rec, nil
}

func (s *Service) ToggleEmployeeActive(ctx context.Context, id int64) (bool, error) {
	active, err := s.store.ToggleEmployeeActive(ctx, id)
	if err != nil {
		return false, err
	}
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		slog.Warn("employee status notification skipped", "employeeId", id, "active", active, "err", err)
		return active, nil
	}
	action := notifications.ActionEmployeeDeactivated
	if active {
		action = notifications.ActionEmployeeReactivated
	}
	s.notify(ctx, emp.SupervisorIDs, id, action)
	return active, nil
}

func (s *Service) ListSupervisors(ctx context.Context, active *bool) ([]Supervisor, error) {
	return s.store.ListSupervisors(ctx, active)
}

func (s *Service) GetSupervisor(ctx context.Context, id int64) (Supervisor, error) {
	return s.store.GetSupervisor(ctx, id)
}

func (s *Service) CreateSupervisor(ctx context.Context, sup Supervisor) (Supervisor, error) {
	sup.Name = strings.TrimSpace(sup.Name)
	sup.EvaluatorIDs = NormalizeIDs(sup.EvaluatorIDs)
	id, err := s.store.CreateSupervisor(ctx, sup)
	if err != nil {
		return Supervisor{}, err
	}
	sup.ID = id
	sup.Active = true
	return sup, nil
}

func (s *Service) UpdateSupervisor(ctx context.Context, id int64, sup Supervisor) error {
	sup.Name = strings.TrimSpace(sup.Name)
	return s.store.UpdateSupervisor(ctx, id, sup)
}

func (s *Service) ToggleSupervisorActive(ctx context.Context, id int64) (bool, error) {
	return s.store.ToggleSupervisorActive(ctx, id)
}

func (s *Service) SetSupervisorEvaluators(ctx context.Context, id int64, userIDs []int64) (Reconciliation, error) {
	return s.store.SetSupervisorEvaluators(ctx, id, NormalizeIDs(userIDs))
}

// SupervisorEmployees lists the employees assigned to an existing supervisor.
func (s *Service) SupervisorEmployees(ctx context.Context, id int64, active *bool) ([]Employee, error) {
	if _, err := s.store.GetSupervisor(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListEmployees(ctx, EmployeeFilter{SupervisorID: id, Active: active})
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateUser hashes the password and resolves the role by name.
func (s *Service) CreateUser(ctx context.Context, user User, password string) (User, error) {
	roleID, err := s.store.RoleIDByName(ctx, user.Role)
	if err != nil {
		return User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	user.RoleID = roleID
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	id, err := s.store.CreateUser(ctx, user, hash)
	if err != nil {
		return User{}, err
	}
	user.ID = id
	user.Active = true
	return user, nil
}

// UpdateUser changes the profile and role; an empty password keeps the
// current one.
func (s *Service) UpdateUser(ctx context.Context, id int64, user User, password string) error {
	roleID, err := s.store.RoleIDByName(ctx, user.Role)
	if err != nil {
		return err
	}
	var hash string
	if password != "" {
		if hash, err = auth.HashPassword(password); err != nil {
			return err
		}
	}
	user.RoleID = roleID
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return s.store.UpdateUser(ctx, id, user, hash)
}

func (s *Service) ToggleUserActive(ctx context.Context, id int64) (bool, error) {
	return s.store.ToggleUserActive(ctx, id)
}

func normalizeEmployee(emp Employee) Employee {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Position = strings.TrimSpace(emp.Position)
	emp.EmployeeNumber = strings.TrimSpace(emp.EmployeeNumber)
	emp.SupervisorIDs = NormalizeIDs(emp.SupervisorIDs)
	return emp
}
