package evaluation

import "sort"

// RosterEntry lists an employee that should appear in a report even without
// evaluations.
type RosterEntry struct {
	ID   int64
	Name string
}

type Filter struct {
	Window       *Window
	SupervisorID int64
	EmployeeID   int64
	Roster       []RosterEntry
}

// FilterRows keeps rows inside the window and matching the supervisor and
// employee filters. Zero ids match everything.
func FilterRows(rows []Row, filter Filter) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if filter.SupervisorID > 0 && row.SupervisorID != filter.SupervisorID {
			continue
		}
		if filter.EmployeeID > 0 && row.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Window != nil && !filter.Window.Contains(row.EvaluationDate) {
			continue
		}
		out = append(out, row)
	}
	return out
}

type employeeAcc struct {
	score      EmployeeScore
	percentSum float64
}

func (a *employeeAcc) add(policy Policy, part Partition) {
	a.score.HasEvaluations = true
	if a.score.EmployeeName == "" {
		a.score.EmployeeName = part.EmployeeName
	}
	switch {
	case part.Absent:
		a.score.AbsentDays++
	case policy.Complete(part):
		a.score.Evaluations++
		a.percentSum += policy.Percentage(part)
	default:
		a.score.Incomplete++
	}
}

func (a *employeeAcc) finish() (EmployeeScore, float64, bool) {
	out := a.score
	if out.Evaluations == 0 {
		out.Absent = out.AbsentDays > 0
		return out, 0, false
	}
	mean := clampPercent(a.percentSum / float64(out.Evaluations))
	out.Score = ptr(round2(mean))
	return out, mean, true
}

// AggregateByEmployee reduces rows into one score per employee. Each complete
// partition contributes its percentage independently; absent and incomplete
// partitions only feed the metadata counters.
func AggregateByEmployee(rows []Row, policy Policy, filter Filter) EmployeeReport {
	parts := GroupPartitions(FilterRows(rows, filter))

	accs := map[int64]*employeeAcc{}
	for _, entry := range filter.Roster {
		if _, ok := accs[entry.ID]; !ok {
			accs[entry.ID] = &employeeAcc{score: EmployeeScore{EmployeeID: entry.ID, EmployeeName: entry.Name}}
		}
	}
	for _, part := range parts {
		acc, ok := accs[part.Key.EmployeeID]
		if !ok {
			acc = &employeeAcc{score: EmployeeScore{EmployeeID: part.Key.EmployeeID}}
			accs[part.Key.EmployeeID] = acc
		}
		acc.add(policy, part)
	}

	report := EmployeeReport{
		Window:       filter.Window,
		SupervisorID: filter.SupervisorID,
		Employees:    make([]EmployeeScore, 0, len(accs)),
	}
	var total float64
	var scored int
	for _, acc := range accs {
		score, mean, ok := acc.finish()
		if ok {
			total += mean
			scored++
		}
		report.Employees = append(report.Employees, score)
	}
	sort.Slice(report.Employees, func(i, j int) bool {
		return report.Employees[i].EmployeeID < report.Employees[j].EmployeeID
	})
	if scored > 0 {
		report.GeneralAverage = ptr(round2(total / float64(scored)))
	}
	return report
}

// AggregateBySupervisor reduces rows into one score per supervisor from the
// complete partitions that supervisor recorded.
func AggregateBySupervisor(rows []Row, policy Policy, window *Window) []SupervisorScore {
	parts := GroupPartitions(FilterRows(rows, Filter{Window: window}))

	type acc struct {
		out        SupervisorScore
		percentSum float64
		employees  map[int64]struct{}
	}
	accs := map[int64]*acc{}
	for _, part := range parts {
		a, ok := accs[part.Key.SupervisorID]
		if !ok {
			a = &acc{
				out:       SupervisorScore{SupervisorID: part.Key.SupervisorID, SupervisorName: part.SupervisorName},
				employees: map[int64]struct{}{},
			}
			accs[part.Key.SupervisorID] = a
		}
		pct, ok := policy.Score(part)
		if !ok {
			continue
		}
		a.out.Evaluations++
		a.percentSum += pct
		a.employees[part.Key.EmployeeID] = struct{}{}
	}

	out := make([]SupervisorScore, 0, len(accs))
	for _, a := range accs {
		s := a.out
		s.EmployeesEvaluated = len(a.employees)
		if s.Evaluations > 0 {
			s.Score = ptr(round2(clampPercent(a.percentSum / float64(s.Evaluations))))
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupervisorID < out[j].SupervisorID })
	return out
}

// AggregateByAspect averages raw scores per aspect over non-absent rows,
// expressed as a percentage of the maximum raw score. Aspects without rows
// report 0.
func AggregateByAspect(rows []Row, catalog Catalog, maxRawScore int, window *Window) []AspectScore {
	if maxRawScore <= 0 {
		maxRawScore = DefaultMaxRawScore
	}
	sums := map[string]int{}
	counts := map[string]int{}
	for _, row := range FilterRows(rows, Filter{Window: window}) {
		if row.Absent {
			continue
		}
		sums[row.AspectText] += row.RawScore
		counts[row.AspectText]++
	}

	out := make([]AspectScore, 0, catalog.Size())
	for _, aspect := range catalog.aspects {
		score := AspectScore{Aspect: aspect.Text, Weight: aspect.Weight, Responses: counts[aspect.Text]}
		if n := counts[aspect.Text]; n > 0 {
			mean := float64(sums[aspect.Text]) / float64(n)
			score.Percentage = round2(clampPercent(mean / float64(maxRawScore) * 100))
		}
		out = append(out, score)
	}
	return out
}

// BuildEmployeeDetail lists every partition of one employee with its
// per-aspect rows and the employee summary.
func BuildEmployeeDetail(rows []Row, policy Policy, employeeID int64, window *Window) EmployeeDetail {
	filter := Filter{Window: window, EmployeeID: employeeID}
	parts := GroupPartitions(FilterRows(rows, filter))

	acc := &employeeAcc{score: EmployeeScore{EmployeeID: employeeID}}
	detail := EmployeeDetail{Window: window, Partitions: make([]PartitionDetail, 0, len(parts))}
	for _, part := range parts {
		acc.add(policy, part)
		pd := PartitionDetail{
			Date:           part.Key.Date,
			SupervisorID:   part.Key.SupervisorID,
			SupervisorName: part.SupervisorName,
			Complete:       policy.Complete(part),
			Absent:         part.Absent,
			Aspects:        make([]AspectResult, 0, len(part.Rows)),
		}
		if pct, ok := policy.Score(part); ok {
			pd.Percentage = ptr(round2(pct))
		}
		for _, row := range part.Rows {
			if pd.Comments == "" {
				pd.Comments = row.Comments
			}
			pd.Aspects = append(pd.Aspects, AspectResult{
				Aspect:               row.AspectText,
				RawScore:             row.RawScore,
				WeightedContribution: row.WeightedContribution,
			})
		}
		detail.Partitions = append(detail.Partitions, pd)
	}
	detail.Summary, _, _ = acc.finish()
	return detail
}

func ptr(v float64) *float64 {
	return &v
}
