package core

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrUnknownReference = errors.New("referenced record does not exist")
)

type Employee struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Position       string    `json:"position"`
	EmployeeNumber string    `json:"employeeNumber"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	SupervisorIDs  []int64   `json:"supervisorIds"`
}

type Supervisor struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Position       string    `json:"position"`
	EmployeeNumber string    `json:"employeeNumber"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	EvaluatorIDs   []int64   `json:"evaluatorIds"`
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"roleId"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type EmployeeFilter struct {
	SupervisorID int64
	Active       *bool
}

// Reconciliation reports the junction rows a replace operation touched.
type Reconciliation struct {
	Added   []int64 `json:"added"`
	Removed []int64 `json:"removed"`
}
