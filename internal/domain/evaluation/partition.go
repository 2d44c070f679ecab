package evaluation

import "sort"

// PartitionKey identifies one logical evaluation.
type PartitionKey struct {
	EmployeeID   int64
	SupervisorID int64
	Date         string
}

type Partition struct {
	Key            PartitionKey
	EmployeeName   string
	SupervisorName string
	Rows           []Row
	Sum            float64
	Absent         bool
}

// GroupPartitions groups rows by (employee, supervisor, date). The result is
// ordered by date, then employee, then supervisor.
func GroupPartitions(rows []Row) []Partition {
	index := map[PartitionKey]int{}
	var out []Partition
	for _, row := range rows {
		key := PartitionKey{
			EmployeeID:   row.EmployeeID,
			SupervisorID: row.SupervisorID,
			Date:         row.EvaluationDate.Format(dateLayout),
		}
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, Partition{
				Key:            key,
				EmployeeName:   row.EmployeeName,
				SupervisorName: row.SupervisorName,
			})
		}
		p := &out[pos]
		p.Rows = append(p.Rows, row)
		p.Sum += row.WeightedContribution
		if row.Absent {
			p.Absent = true
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		return a.SupervisorID < b.SupervisorID
	})
	return out
}
