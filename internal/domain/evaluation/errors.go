package evaluation

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteSubmission = errors.New("submission is missing employee id or scores")
	ErrNoEvaluationsFound   = errors.New("no evaluations found")
	ErrEmptyCatalog         = errors.New("aspect catalog is empty")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrSupervisorNotFound   = errors.New("supervisor not found")
	ErrPersistence          = errors.New("evaluation persistence failed")
)

// ValidationError names the input field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
