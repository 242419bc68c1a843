package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ContractError reports a programming-contract violation (nil schema, mismatched schema IDs).
// Unlike data violations it stops the whole run.
type ContractError struct {
	Message string
}

func (e *ContractError) Error() string {
	return "contract violation: " + e.Message
}

func NewContract(format string, args ...any) *ContractError {
	return &ContractError{Message: fmt.Sprintf(format, args...)}
}
