package ports

import (
	"context"

	"ocev/domain/rdf"
)

// RawValidationResult is the untouched outcome of one external
// constraint-validation call.
type RawValidationResult struct {
	Conforms   bool
	Violations []string
	Report     string
}

// ConstraintValidatorPort is the contract required from the external
// constraint-validation engine. The call is opaque, potentially slow,
// synchronous, and must not mutate its inputs; ctx is the single point
// where callers enforce timeouts or cancellation. shapes is the serialized
// constraint schema; ontology is the optional serialized background graph
// (nil when none is configured).
type ConstraintValidatorPort interface {
	Validate(ctx context.Context, dataGraph *rdf.Graph, shapes []byte, ontology []byte) (*RawValidationResult, error)
}
