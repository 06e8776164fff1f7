package domain

import (
	"fmt"
	"strings"
)

// ClassificationError means a sentence could not be mapped to a track.
type ClassificationError struct {
	SentenceID string
	Kind       SentenceKind
	Reason     string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("sentence %s (%s) cannot be classified: %s", e.SentenceID, e.Kind, e.Reason)
}

// ConfigurationError means the rules catalogue is malformed.
type ConfigurationError struct {
	Configuration string
	Reason        string
	Err           error
}

func (e *ConfigurationError) Error() string {
	name := e.Configuration
	if name == "" {
		name = "<unnamed>"
	}
	if e.Err != nil {
		return fmt.Sprintf("early release configuration %s: %s: %v", name, e.Reason, e.Err)
	}
	return fmt.Sprintf("early release configuration %s: %s", name, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CalculationError is an unexpected fault while computing dates.
type CalculationError struct {
	Operation   string
	SentenceIDs []string
	Err         error
}

func (e *CalculationError) Error() string {
	if len(e.SentenceIDs) > 0 {
		return fmt.Sprintf("calculation failed (%s) for sentences [%s]: %v",
			e.Operation, strings.Join(e.SentenceIDs, ", "), e.Err)
	}
	return fmt.Sprintf("calculation failed (%s): %v", e.Operation, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// ValidationFailure carries the messages a validation stage produced. It is
// the expected, user-correctable outcome.
type ValidationFailure struct {
	Messages []ValidationMessage
}

func (e *ValidationFailure) Error() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, m.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
