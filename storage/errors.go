package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked by callers with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateURL     = errors.New("url already exists")
	ErrReservedCategory = errors.New("the \"all\" category cannot be deleted")
)

// ValidationError reports malformed or missing required input. It is never
// retried and never fatal to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "required field is missing"}
}
