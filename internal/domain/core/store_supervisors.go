package core

import "context"

const supervisorColumns = `
    s.id, s.name, COALESCE(s.position, ''), COALESCE(s.employee_number, ''), s.active, s.created_at,
    COALESCE(array_agg(se.user_id ORDER BY se.user_id) FILTER (WHERE se.user_id IS NOT NULL), '{}')`

func (s *Store) ListSupervisors(ctx context.Context, active *bool) ([]Supervisor, error) {
	query := "SELECT" + supervisorColumns + `
    FROM supervisors s
    LEFT JOIN supervisor_evaluators se ON se.supervisor_id = s.id`
	var args []any
	if active != nil {
		query += " WHERE s.active = $1"
		args = append(args, *active)
	}
	rows, err := s.DB.Query(ctx, query+" GROUP BY s.id ORDER BY s.name, s.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supervisor
	for rows.Next() {
		var sup Supervisor
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Position, &sup.EmployeeNumber, &sup.Active, &sup.CreatedAt, &sup.EvaluatorIDs); err != nil {
			return nil, err
		}
		out = append(out, sup)
	}
	return out, rows.Err()
}

func (s *Store) GetSupervisor(ctx context.Context, id int64) (Supervisor, error) {
	var sup Supervisor
	err := s.DB.QueryRow(ctx, "SELECT"+supervisorColumns+`
    FROM supervisors s
    LEFT JOIN supervisor_evaluators se ON se.supervisor_id = s.id
    WHERE s.id = $1
    GROUP BY s.id
  `, id).Scan(&sup.ID, &sup.Name, &sup.Position, &sup.EmployeeNumber, &sup.Active, &sup.CreatedAt, &sup.EvaluatorIDs)
	if err != nil {
		return Supervisor{}, mapError(err)
	}
	return sup, nil
}

func (s *Store) CreateSupervisor(ctx context.Context, sup Supervisor) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO supervisors (name, position, employee_number)
    VALUES ($1,$2,$3)
    RETURNING id
  `, sup.Name, nullIfEmpty(sup.Position), nullIfEmpty(sup.EmployeeNumber)).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	if _, err := replaceLinks(ctx, tx, supervisorEvaluatorLinks, id, sup.EvaluatorIDs); err != nil {
		return 0, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateSupervisor(ctx context.Context, id int64, sup Supervisor) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE supervisors
    SET name = $1, position = $2, employee_number = $3
    WHERE id = $4
  `, sup.Name, nullIfEmpty(sup.Position), nullIfEmpty(sup.EmployeeNumber), id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ToggleSupervisorActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := s.DB.QueryRow(ctx, "UPDATE supervisors SET active = NOT active WHERE id = $1 RETURNING active", id).Scan(&active)
	return active, mapError(err)
}

func (s *Store) SetSupervisorEvaluators(ctx context.Context, id int64, userIDs []int64) (Reconciliation, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Reconciliation{}, err
	}
	defer tx.Rollback(ctx)

	var one int
	if err := tx.QueryRow(ctx, "SELECT 1 FROM supervisors WHERE id = $1 FOR UPDATE", id).Scan(&one); err != nil {
		return Reconciliation{}, mapError(err)
	}
	rec, err := replaceLinks(ctx, tx, supervisorEvaluatorLinks, id, userIDs)
	if err != nil {
		return Reconciliation{}, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Reconciliation{}, err
	}
	return rec, nil
}
