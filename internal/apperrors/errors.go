// Package apperrors defines the error taxonomy shared by the
// conversation core and the HTTP surface: retrieval, generation,
// persistence, validation and transport failures.
package apperrors

import "fmt"

// RetrievalError means a reference-data read failed. The core treats it
// as a whole-turn failure: no partial grounding.
type RetrievalError struct {
	Table string
	Cause error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to get data from %s: %v", e.Table, e.Cause)
}

func (e *RetrievalError) Unwrap() error { return e.Cause }

func NewRetrievalError(table string, cause error) *RetrievalError {
	return &RetrievalError{Table: table, Cause: cause}
}

// GenerationError means the completion call failed. The core swallows
// it and substitutes a fixed apology turn.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("completion failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func NewGenerationError(cause error) *GenerationError {
	return &GenerationError{Cause: cause}
}

// PersistenceError means an append or query against the tabular store
// failed.
type PersistenceError struct {
	Op    string
	Table string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func NewPersistenceError(op, table string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Table: table, Cause: cause}
}

// ValidationError means a request body did not match its schema.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

// TransportError means an outbound notification failed. Delivery is
// best effort: callers log and discard it.
type TransportError struct {
	To    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.To, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func NewTransportError(to string, cause error) *TransportError {
	return &TransportError{To: to, Cause: cause}
}
