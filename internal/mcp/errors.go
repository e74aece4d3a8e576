package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/eventloop"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s %s", e.Code, e.Message, formatPayload(e.Details))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var panicErr *eventloop.PanicError
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case len(project.FieldErrors(err)) > 0:
		return &APIError{Code: "INVALID_INPUT", Message: "project input rejected", Details: project.FieldErrors(err), RecoveryHint: "Fix every listed field and retry"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, eventloop.ErrStopped):
		return &APIError{Code: "UNAVAILABLE", Message: "board is shutting down"}
	case errors.As(err, &panicErr):
		return &APIError{Code: "INTERNAL", Message: "board handler failed"}
	default:
		return nil
	}
}

// toolError prefers the mapped APIError so clients see a stable code.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
