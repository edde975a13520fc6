package shacl

import (
	"context"

	"ocev/domain/rdf"
	"ocev/ports"
)

// MockValidator is a canned constraint validator for tests and offline runs.
type MockValidator struct {
	Result *ports.RawValidationResult // Set this for testing
	Error  error                      // Set this to simulate adapter failures

	// LastDataGraph records the most recently submitted data graph so
	// tests can assert on what the pipeline built.
	LastDataGraph *rdf.Graph
}

func (m *MockValidator) Validate(ctx context.Context, dataGraph *rdf.Graph, shapes []byte, ontology []byte) (*ports.RawValidationResult, error) {
	m.LastDataGraph = dataGraph
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Result != nil {
		return m.Result, nil
	}
	// Default: clean conformance with an empty report.
	return &ports.RawValidationResult{
		Conforms: true,
		Report:   "Validation Report\nConforms: True\n",
	}, nil
}
