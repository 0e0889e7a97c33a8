package custom_errors

import (
	"errors"
	"net/http"

	"go.uber.org/multierr"
)

const (
	validationMessage = "Validation Failed"
	internalMessage   = "Internal server error"
)

// FieldMessage is one entry of a validation fault payload.
type FieldMessage struct {
	Msg string `json:"msg"`
}

// Condition pairs a failure predicate with the message reported when it holds.
type Condition struct {
	Failed  bool
	Message string
}

// When builds a Condition.
func When(failed bool, message string) Condition {
	return Condition{Failed: failed, Message: message}
}

// ValidationError aggregates every failing field check of one request.
type ValidationError struct {
	errs error
}

func (e *ValidationError) Error() string {
	return validationMessage
}

func (e *ValidationError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// Data returns the failing messages in the order the conditions were given.
func (e *ValidationError) Data() []FieldMessage {
	errs := multierr.Errors(e.errs)
	data := make([]FieldMessage, 0, len(errs))
	for _, err := range errs {
		data = append(data, FieldMessage{Msg: err.Error()})
	}
	return data
}

// OperationalError is a single-cause fault carrying its own status code.
type OperationalError struct {
	Message string
	Status  int
}

func (e *OperationalError) Error() string {
	return e.Message
}

func (e *OperationalError) StatusCode() int {
	return e.Status
}

// New returns an operational fault. A zero status is reported as 500.
func New(message string, status int) *OperationalError {
	return &OperationalError{Message: message, Status: status}
}

// Validate evaluates all conditions and returns a *ValidationError listing
// every failed one, or nil when none failed.
func Validate(conditions ...Condition) error {
	var errs error
	for _, c := range conditions {
		if c.Failed {
			errs = multierr.Append(errs, errors.New(c.Message))
		}
	}
	if errs == nil {
		return nil
	}
	return &ValidationError{errs: errs}
}

// Fault is the transport-neutral shape of any error leaving the application.
type Fault struct {
	Status  int
	Message string
	Data    []FieldMessage
}

// Normalize converts err into a Fault. Errors that carry no status become 500.
func Normalize(err error) Fault {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return Fault{
			Status:  validationErr.StatusCode(),
			Message: validationErr.Error(),
			Data:    validationErr.Data(),
		}
	}

	var opErr *OperationalError
	if errors.As(err, &opErr) {
		status := opErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return Fault{Status: status, Message: opErr.Message}
	}

	return Fault{Status: http.StatusInternalServerError, Message: internalMessage}
}
