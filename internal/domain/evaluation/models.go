package evaluation

import "time"

type Aspect struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	Weight   float64 `json:"weight"`
	Position int     `json:"position"`
}

type Row struct {
	ID                   int64     `json:"id"`
	EmployeeID           int64     `json:"employeeId"`
	EmployeeName         string    `json:"employeeName,omitempty"`
	SupervisorID         int64     `json:"supervisorId"`
	SupervisorName       string    `json:"supervisorName,omitempty"`
	EvaluationDate       time.Time `json:"evaluationDate"`
	AspectText           string    `json:"aspect"`
	RawScore             int       `json:"rawScore"`
	WeightedContribution float64   `json:"weightedContribution"`
	Comments             string    `json:"comments"`
	Absent               bool      `json:"absent"`
}

// Submission is one employee's entry in a recording batch. A nil Scores map
// marks the submission as incomplete.
type Submission struct {
	EmployeeID int64
	Scores     map[string]int
	Comments   []string
	Absent     bool
}

type RecordResult struct {
	SupervisorID int64     `json:"supervisorId"`
	Date         time.Time `json:"evaluationDate"`
	Submissions  int       `json:"submissions"`
	Rows         int       `json:"rows"`
	EmployeeIDs  []int64   `json:"employeeIds"`
}

// Window is an inclusive range of calendar days.
type Window struct {
	Kind  string    `json:"kind"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type EmployeeScore struct {
	EmployeeID     int64    `json:"employeeId"`
	EmployeeName   string   `json:"employeeName,omitempty"`
	Score          *float64 `json:"score"`
	HasEvaluations bool     `json:"hasEvaluations"`
	Absent         bool     `json:"absent"`
	Evaluations    int      `json:"evaluations"`
	AbsentDays     int      `json:"absentDays"`
	Incomplete     int      `json:"incomplete"`
}

type EmployeeReport struct {
	Window         *Window         `json:"window,omitempty"`
	SupervisorID   int64           `json:"supervisorId,omitempty"`
	Employees      []EmployeeScore `json:"employees"`
	GeneralAverage *float64        `json:"generalAverage"`
}

type SupervisorScore struct {
	SupervisorID       int64    `json:"supervisorId"`
	SupervisorName     string   `json:"supervisorName,omitempty"`
	Score              *float64 `json:"score"`
	EmployeesEvaluated int      `json:"employeesEvaluated"`
	Evaluations        int      `json:"evaluations"`
}

type AspectScore struct {
	Aspect     string  `json:"aspect"`
	Weight     float64 `json:"weight"`
	Percentage float64 `json:"percentage"`
	Responses  int     `json:"responses"`
}

type AspectResult struct {
	Aspect               string  `json:"aspect"`
	RawScore             int     `json:"rawScore"`
	WeightedContribution float64 `json:"weightedContribution"`
}

type PartitionDetail struct {
	Date           string         `json:"date"`
	SupervisorID   int64          `json:"supervisorId"`
	SupervisorName string         `json:"supervisorName,omitempty"`
	Percentage     *float64       `json:"percentage"`
	Complete       bool           `json:"complete"`
	Absent         bool           `json:"absent"`
	Comments       string         `json:"comments"`
	Aspects        []AspectResult `json:"aspects"`
}

type EmployeeDetail struct {
	Window     *Window           `json:"window,omitempty"`
	Summary    EmployeeScore     `json:"summary"`
	Partitions []PartitionDetail `json:"evaluations"`
}
