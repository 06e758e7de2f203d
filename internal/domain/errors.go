package domain

import (
	"errors"
	"fmt"
)

// TransformationDisabledMessage is the fixed user-facing text for a disabled capability.
const TransformationDisabledMessage = "Transformation is disabled. Enable it in Settings to run transforms."

var (
	// ErrTransformationDisabled is returned when a transform is requested while disabled.
	ErrTransformationDisabled = errors.New("transformation is disabled")

	// ErrCancelled marks a job the user aborted.
	ErrCancelled = errors.New("cancelled by user")
)

// ValidationError describes a rejected settings or preset mutation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error formats the field and reason.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "invalid settings: " + e.Message
	}
	return fmt.Sprintf("invalid settings: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// GatewayCategory classifies which capability call failed.
type GatewayCategory string

const (
	GatewayCategoryTranscription  GatewayCategory = "transcription"
	GatewayCategoryTransformation GatewayCategory = "transformation"
	GatewayCategoryProbe          GatewayCategory = "probe"
)

// GatewayError is a provider-aware failure of an external capability call.
type GatewayError struct {
	Category GatewayCategory `json:"category"`
	Provider Provider        `json:"provider"`
	Err      error           `json:"-"`
}

// Error formats provider failures for logs and UI.
func (e *GatewayError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s (%s) failed", e.Category, e.Provider)
	}
	return fmt.Sprintf("%s (%s) failed: %v", e.Category, e.Provider, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *GatewayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
