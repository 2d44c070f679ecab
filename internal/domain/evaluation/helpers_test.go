package evaluation

import (
	"fmt"
	"time"
)

func day(raw string) time.Time {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		panic(err)
	}
	return t
}

func uniformCatalog(n int, weight float64) Catalog {
	aspects := make([]Aspect, n)
	for i := range aspects {
		aspects[i] = Aspect{ID: int64(i + 1), Text: fmt.Sprintf("aspect-%d", i+1), Weight: weight, Position: i + 1}
	}
	return NewCatalog(aspects)
}

// evaluate builds the rows of one partition with the same raw score for
// every aspect.
func evaluate(catalog Catalog, employeeID, supervisorID int64, date string, raw int, absent bool) []Row {
	scores := map[string]int{}
	for _, a := range catalog.Aspects() {
		scores[a.Text] = raw
	}
	rows, err := BuildRows(catalog, supervisorID, day(date), []Submission{{
		EmployeeID: employeeID,
		Scores:     scores,
		Absent:     absent,
	}}, DefaultMaxRawScore)
	if err != nil {
		panic(err)
	}
	return rows
}

func concat(groups ...[]Row) []Row {
	var out []Row
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
