package notifications

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("notification not found")
	ErrNoIDs    = errors.New("at least one notification id is required")
)

type Notification struct {
	ID           int64     `json:"id"`
	SupervisorID int64     `json:"supervisorId"`
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Action       int       `json:"action"`
	ActionName   string    `json:"actionName"`
	CreatedAt    time.Time `json:"createdAt"`
	Active       bool      `json:"active"`
}
