package evaluation

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BuildRows expands a batch into one row per (submission, aspect) in catalog
// order. The whole batch is validated before any row is produced.
func BuildRows(catalog Catalog, supervisorID int64, date time.Time, subs []Submission, maxRawScore int) ([]Row, error) {
	if err := validateBatch(catalog, supervisorID, subs, maxRawScore); err != nil {
		return nil, err
	}

	day := truncateDay(date)
	rows := make([]Row, 0, len(subs)*catalog.Size())
	for _, sub := range subs {
		comments := JoinComments(sub.Comments)
		for _, aspect := range catalog.aspects {
			raw := sub.Scores[aspect.Text]
			rows = append(rows, Row{
				EmployeeID:           sub.EmployeeID,
				SupervisorID:         supervisorID,
				EvaluationDate:       day,
				AspectText:           aspect.Text,
				RawScore:             raw,
				WeightedContribution: round2(float64(raw) * aspect.Weight),
				Comments:             comments,
				Absent:               sub.Absent,
			})
		}
	}
	return rows, nil
}

func validateBatch(catalog Catalog, supervisorID int64, subs []Submission, maxRawScore int) error {
	if supervisorID <= 0 {
		return invalid("idEncargado", "is required")
	}
	if len(subs) == 0 {
		return invalid("payload", "must contain at least one submission")
	}
	if catalog.Size() == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[int64]int, len(subs))
	for i, sub := range subs {
		if sub.EmployeeID <= 0 || sub.Scores == nil {
			return fmt.Errorf("payload[%d]: %w", i, ErrIncompleteSubmission)
		}
		if prev, ok := seen[sub.EmployeeID]; ok {
			return invalid(fmt.Sprintf("payload[%d].empleado_id", i), "duplicates payload[%d]", prev)
		}
		seen[sub.EmployeeID] = i
		for _, aspect := range catalog.aspects {
			score := sub.Scores[aspect.Text]
			if score < 0 || score > maxRawScore {
				return invalid(fmt.Sprintf("payload[%d].calificaciones.%s", i, aspect.Text), "must be between 0 and %d", maxRawScore)
			}
		}
	}
	return nil
}

// JoinComments flattens a comment list into the stored form.
func JoinComments(comments []string) string {
	return strings.Join(comments, CommentSeparator)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
