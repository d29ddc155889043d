// Package apperrors defines the error taxonomy the HTTP layer maps to
// status codes. Services return these; handlers never inspect driver
// or store errors directly.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports malformed or missing request fields.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// Validation converts a gin binding error into a ValidationError with
// per-field detail. Non-validator errors (malformed JSON and the like)
// land under a single "body" key.
func Validation(err error) *ValidationError {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("failed on the %q rule", fe.Tag())
		}
	} else {
		fields["body"] = err.Error()
	}
	return &ValidationError{Fields: fields}
}

// NotFoundError reports that a referenced entity id does not resolve.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// BadRequestError reports a downstream failure attributable to caller
// input, such as an adapter rejecting user-supplied SQL.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

func BadRequest(err error) *BadRequestError {
	return &BadRequestError{Message: err.Error()}
}

// MethodNotAllowedError reports that the path matched but the verb did
// not.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed", e.Method)
}

// InternalServerError reports a violated persistence invariant, e.g. a
// message that must exist for history to stay consistent failed to
// save.
type InternalServerError struct {
	Message string
}

func (e *InternalServerError) Error() string { return e.Message }

func Internalf(format string, args ...any) *InternalServerError {
	return &InternalServerError{Message: fmt.Sprintf(format, args...)}
}
