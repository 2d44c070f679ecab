package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListAspects(ctx context.Context) ([]Aspect, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, text, weight, position
    FROM aspects
    ORDER BY position, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Aspect
	for rows.Next() {
		var a Aspect
		if err := rows.Scan(&a.ID, &a.Text, &a.Weight, &a.Position); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) InsertRows(ctx context.Context, rows []Row) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx, `
      INSERT INTO evaluation_rows
        (employee_id, supervisor_id, evaluation_date, aspect_text, raw_score, weighted_contribution, comments, absent)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, row.EmployeeID, row.SupervisorID, row.EvaluationDate, row.AspectText, row.RawScore,
			row.WeightedContribution, row.Comments, row.Absent); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListRows(ctx context.Context, query RowQuery) ([]Row, error) {
	sql, args := buildRowsQuery(query)
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.ID,
			&r.EmployeeID,
			&r.EmployeeName,
			&r.SupervisorID,
			&r.SupervisorName,
			&r.EvaluationDate,
			&r.AspectText,
			&r.RawScore,
			&r.WeightedContribution,
			&r.Comments,
			&r.Absent,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func buildRowsQuery(query RowQuery) (string, []any) {
	sql := `
    SELECT r.id, r.employee_id, e.name, r.supervisor_id, s.name, r.evaluation_date,
           r.aspect_text, r.raw_score, r.weighted_contribution, r.comments, r.absent
    FROM evaluation_rows r
    JOIN employees e ON e.id = r.employee_id
    JOIN supervisors s ON s.id = r.supervisor_id
    WHERE 1=1`
	var args []any
	if query.SupervisorID > 0 {
		args = append(args, query.SupervisorID)
		sql += fmt.Sprintf(" AND r.supervisor_id = $%d", len(args))
	}
	if query.EmployeeID > 0 {
		args = append(args, query.EmployeeID)
		sql += fmt.Sprintf(" AND r.employee_id = $%d", len(args))
	}
	if query.Start != nil {
		args = append(args, *query.Start)
		sql += fmt.Sprintf(" AND r.evaluation_date >= $%d", len(args))
	}
	if query.End != nil {
		args = append(args, *query.End)
		sql += fmt.Sprintf(" AND r.evaluation_date <= $%d", len(args))
	}
	sql += " ORDER BY r.evaluation_date, r.employee_id, r.supervisor_id, r.id"
	return sql, args
}

func (s *Store) LatestEvaluationDate(ctx context.Context, supervisorID int64) (time.Time, error) {
	var latest *time.Time
	if err := s.DB.QueryRow(ctx, `
    SELECT MAX(evaluation_date)
    FROM evaluation_rows
    WHERE supervisor_id = $1
  `, supervisorID).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	if latest == nil {
		return time.Time{}, ErrNoEvaluationsFound
	}
	return *latest, nil
}

func (s *Store) SupervisorExists(ctx context.Context, supervisorID int64) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM supervisors WHERE id = $1", supervisorID)
}

func (s *Store) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM employees WHERE id = $1", employeeID)
}

func (s *Store) exists(ctx context.Context, sql string, id int64) (bool, error) {
	var one int
	err := s.DB.QueryRow(ctx, sql, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) MissingEmployees(ctx context.Context, employeeIDs []int64) ([]int64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT wanted.id
    FROM unnest($1::bigint[]) AS wanted(id)
    LEFT JOIN employees e ON e.id = wanted.id
    WHERE e.id IS NULL
    ORDER BY wanted.id
  `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) ListRoster(ctx context.Context, supervisorID int64) ([]RosterEntry, error) {
	sql := "SELECT e.id, e.name FROM employees e WHERE e.active"
	var args []any
	if supervisorID > 0 {
		sql = `
    SELECT e.id, e.name
    FROM employees e
    JOIN employee_supervisors es ON es.employee_id = e.id
    WHERE e.active AND es.supervisor_id = $1`
		args = append(args, supervisorID)
	}
	rows, err := s.DB.Query(ctx, sql+" ORDER BY e.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RosterEntry
	for rows.Next() {
		var entry RosterEntry
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
