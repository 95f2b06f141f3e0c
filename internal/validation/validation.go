package validation

import (
	"errors"
	"strings"
)

// Error reports input that was rejected before reaching the store.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func New(field, msg string) error {
	return &Error{Field: field, Msg: msg}
}

func Is(err error) bool {
	var validationError *Error
	return errors.As(err, &validationError)
}

// Errors collects several validation failures.
type Errors struct {
	Errors []error
}

func (ve *Errors) Add(field, msg string) {
	ve.Errors = append(ve.Errors, New(field, msg))
}

func (ve *Errors) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		msgs[i] = err.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is/As.
func (ve *Errors) Unwrap() []error {
	return ve.Errors
}

// Err returns nil when nothing was collected.
func (ve *Errors) Err() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}
