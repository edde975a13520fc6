package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Startup errors
	ErrShapesMissing   = errors.New("constraint shape schema not found")
	ErrOntologyInvalid = errors.New("ontology resource unparseable")

	// Input errors
	ErrUnknownTestType = errors.New("unrecognized statistical test type")
	ErrMalformedRecord = errors.New("malformed evidence record")
	ErrNoRecords       = errors.New("no evidence records submitted")

	// Run errors
	ErrValidatorFailed = errors.New("constraint validator call failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewRecordError(index int, reason string) error {
	return fmt.Errorf("%w: record %d: %s", ErrMalformedRecord, index, reason)
}

func NewValidatorError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidatorFailed, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrShapesMissing) || errors.Is(err, ErrOntologyInvalid)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedRecord) || errors.Is(err, ErrNoRecords)
}

func IsValidatorError(err error) bool {
	return errors.Is(err, ErrValidatorFailed)
}
