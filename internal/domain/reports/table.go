package reports

import (
	"fmt"
	"strconv"
	"strings"

	"perfeval/internal/domain/evaluation"
)

const (
	GroupEmployee   = "empleado"
	GroupSupervisor = "encargado"
	GroupAspect     = "aspecto"

	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

var (
	Groupings = []string{GroupEmployee, GroupSupervisor, GroupAspect}
	Formats   = []string{FormatCSV, FormatJSON, FormatPDF}
)

// Table is the flat projection shared by every export format.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func FromEmployeeReport(report evaluation.EmployeeReport) Table {
	t := Table{
		Title:   title("Evaluaciones por empleado", report.Window),
		Headers: []string{"empleado_id", "empleado", "puntaje", "evaluaciones", "ausencias", "incompletas", "ausente"},
		Rows:    make([][]string, 0, len(report.Employees)+1),
	}
	for _, e := range report.Employees {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(e.EmployeeID, 10),
			e.EmployeeName,
			score(e.Score),
			strconv.Itoa(e.Evaluations),
			strconv.Itoa(e.AbsentDays),
			strconv.Itoa(e.Incomplete),
			strconv.FormatBool(e.Absent),
		})
	}
	t.Rows = append(t.Rows, []string{"", "Promedio general", score(report.GeneralAverage), "", "", "", ""})
	return t
}

func FromSupervisorReport(report evaluation.SupervisorReport) Table {
	t := Table{
		Title:   title("Promedio por encargado", report.Window),
		Headers: []string{"encargado_id", "encargado", "puntaje", "empleados_evaluados", "evaluaciones"},
		Rows:    make([][]string, 0, len(report.Supervisors)),
	}
	for _, s := range report.Supervisors {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(s.SupervisorID, 10),
			s.SupervisorName,
			score(s.Score),
			strconv.Itoa(s.EmployeesEvaluated),
			strconv.Itoa(s.Evaluations),
		})
	}
	return t
}

func FromAspectReport(report evaluation.AspectReport) Table {
	t := Table{
		Title:   title("Promedio por aspecto", report.Window),
		Headers: []string{"aspecto", "peso", "porcentaje", "respuestas"},
		Rows:    make([][]string, 0, len(report.Aspects)),
	}
	for _, a := range report.Aspects {
		t.Rows = append(t.Rows, []string{
			a.Aspect,
			strconv.FormatFloat(a.Weight, 'f', 2, 64),
			strconv.FormatFloat(a.Percentage, 'f', 2, 64),
			strconv.Itoa(a.Responses),
		})
	}
	return t
}

// Filename is the attachment name for a grouping and format.
func Filename(grouping string, window *evaluation.Window, format string) string {
	name := "evaluaciones-" + grouping
	if window != nil && window.Label != "" {
		name += "-" + strings.ReplaceAll(window.Label, " ", "_")
	}
	return name + "." + format
}

func title(base string, window *evaluation.Window) string {
	if window == nil {
		return base + " (historico)"
	}
	return fmt.Sprintf("%s (%s %s)", base, window.Kind, window.Label)
}

func score(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}
