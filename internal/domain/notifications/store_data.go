package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateNotification(ctx context.Context, supervisorID, employeeID int64, action int) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO notifications (supervisor_id, employee_id, action)
    VALUES ($1,$2,$3)
    RETURNING id
  `, supervisorID, employeeID, action).Scan(&id)
	return id, err
}

func (s *Store) ListRecent(ctx context.Context, supervisorID int64, since time.Time) ([]Notification, error) {
	query := `
    SELECT n.id, n.supervisor_id, n.employee_id, e.name, n.action, n.created_at, n.active
    FROM notifications n
    JOIN employees e ON e.id = n.employee_id
    WHERE n.active AND n.created_at >= $1`
	args := []any{since}
	if supervisorID > 0 {
		query += " AND n.supervisor_id = $2"
		args = append(args, supervisorID)
	}
	rows, err := s.DB.Query(ctx, query+" ORDER BY n.created_at DESC, n.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.SupervisorID, &n.EmployeeID, &n.EmployeeName, &n.Action, &n.CreatedAt, &n.Active); err != nil {
			return nil, err
		}
		n.ActionName = ActionNames[n.Action]
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) Deactivate(ctx context.Context, id int64) (bool, bool, error) {
	var wasActive bool
	err := s.DB.QueryRow(ctx, `
    UPDATE notifications AS n
    SET active = false
    FROM (SELECT id, active FROM notifications WHERE id = $1 FOR UPDATE) AS prev
    WHERE n.id = prev.id
    RETURNING prev.active
  `, id).Scan(&wasActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, wasActive, nil
}

func (s *Store) DeactivateMany(ctx context.Context, ids []int64) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications
    SET active = false
    WHERE id = ANY($1) AND active
  `, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
