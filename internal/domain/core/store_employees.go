package core

import (
	"context"
	"fmt"
)

const employeeColumns = `
    e.id, e.name, COALESCE(e.position, ''), COALESCE(e.employee_number, ''), e.active, e.created_at,
    COALESCE(array_agg(es.supervisor_id ORDER BY es.supervisor_id) FILTER (WHERE es.supervisor_id IS NOT NULL), '{}')`

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	query := "SELECT" + employeeColumns + `
    FROM employees e
    LEFT JOIN employee_supervisors es ON es.employee_id = e.id
    WHERE 1=1`
	var args []any
	if filter.SupervisorID > 0 {
		args = append(args, filter.SupervisorID)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM employee_supervisors f WHERE f.employee_id = e.id AND f.supervisor_id = $%d)", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND e.active = $%d", len(args))
	}
	query += " GROUP BY e.id ORDER BY e.name, e.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Position, &emp.EmployeeNumber, &emp.Active, &emp.CreatedAt, &emp.SupervisorIDs); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+`
    FROM employees e
    LEFT JOIN employee_supervisors es ON es.employee_id = e.id
    WHERE e.id = $1
    GROUP BY e.id
  `, id).Scan(&emp.ID, &emp.Name, &emp.Position, &emp.EmployeeNumber, &emp.Active, &emp.CreatedAt, &emp.SupervisorIDs)
	if err != nil {
		return Employee{}, mapError(err)
	}
	return emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO employees (name, position, employee_number)
    VALUES ($1,$2,$3)
    RETURNING id
  `, emp.Name, nullIfEmpty(emp.Position), nullIfEmpty(emp.EmployeeNumber)).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	if _, err := replaceLinks(ctx, tx, employeeSupervisorLinks, id, emp.SupervisorIDs); err != nil {
		return 0, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, emp Employee) (Reconciliation, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Reconciliation{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE employees
    SET name = $1, position = $2, employee_number = $3
    WHERE id = $4
  `, emp.Name, nullIfEmpty(emp.Position), nullIfEmpty(emp.EmployeeNumber), id)
	if err != nil {
		return Reconciliation{}, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return Reconciliation{}, ErrNotFound
	}

	rec, err := replaceLinks(ctx, tx, employeeSupervisorLinks, id, emp.SupervisorIDs)
	if err != nil {
		return Reconciliation{}, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Reconciliation{}, err
	}
	return rec, nil
}

func (s *Store) ToggleEmployeeActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := s.DB.QueryRow(ctx, "UPDATE employees SET active = NOT active WHERE id = $1 RETURNING active", id).Scan(&active)
	return active, mapError(err)
}
