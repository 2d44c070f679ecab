package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type linkTable struct {
	name     string
	ownerCol string
	otherCol string
}

var (
	employeeSupervisorLinks  = linkTable{name: "employee_supervisors", ownerCol: "employee_id", otherCol: "supervisor_id"}
	supervisorEvaluatorLinks = linkTable{name: "supervisor_evaluators", ownerCol: "supervisor_id", otherCol: "user_id"}
)

// replaceLinks makes the owner's links equal to desired inside tx, touching
// only the rows that differ.
func replaceLinks(ctx context.Context, tx pgx.Tx, table linkTable, ownerID int64, desired []int64) (Reconciliation, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 FOR UPDATE",
		table.otherCol, table.name, table.ownerCol,
	), ownerID)
	if err != nil {
		return Reconciliation{}, err
	}
	current, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return Reconciliation{}, err
	}

	toAdd, toRemove := Reconcile(current, desired)
	if len(toRemove) > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1 AND %s = ANY($2)",
			table.name, table.ownerCol, table.otherCol,
		), ownerID, toRemove); err != nil {
			return Reconciliation{}, err
		}
	}
	for _, id := range toAdd {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			table.name, table.ownerCol, table.otherCol,
		), ownerID, id); err != nil {
			return Reconciliation{}, err
		}
	}
	return Reconciliation{Added: toAdd, Removed: toRemove}, nil
}
