package notifications

const (
	ActionEmployeeAssigned    = 1
	ActionEmployeeUnassigned  = 2
	ActionEvaluationRecorded  = 3
	ActionEmployeeDeactivated = 4
	ActionEmployeeReactivated = 5

	DefaultWindowDays = 60
)

var ActionNames = map[int]string{
	ActionEmployeeAssigned:    "employee_assigned",
	ActionEmployeeUnassigned:  "employee_unassigned",
	ActionEvaluationRecorded:  "evaluation_recorded",
	ActionEmployeeDeactivated: "employee_deactivated",
	ActionEmployeeReactivated: "employee_reactivated",
}
