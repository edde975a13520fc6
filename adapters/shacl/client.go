package shacl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ocev/domain/core"
	"ocev/domain/rdf"
	"ocev/ports"
)

// Config holds the connection settings for the external SHACL service.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Inference string // reasoning profile requested from the engine, e.g. "rdfs"
}

// NewValidator creates a validator client from config.
func NewValidator(config Config) (ports.ConstraintValidatorPort, error) {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("missing SHACL service URL")
	}
	inference := config.Inference
	if inference == "" {
		inference = "rdfs"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPValidator{
		BaseURL:   baseURL,
		Inference: inference,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// HTTPValidator submits graphs to a SHACL validation service over HTTP.
// The engine evaluating the shapes is fully external; this adapter only
// ships serialized graphs and relays the verdict.
type HTTPValidator struct {
	BaseURL   string
	Inference string
	client    *http.Client
}

type validateRequest struct {
	DataGraph     string `json:"data_graph"`
	ShapesGraph   string `json:"shapes_graph"`
	OntologyGraph string `json:"ontology_graph,omitempty"`
	Inference     string `json:"inference,omitempty"`
}

type validateResponse struct {
	Conforms   bool     `json:"conforms"`
	Violations []string `json:"violations"`
	Report     string   `json:"report"`
}

// Validate implements ports.ConstraintValidatorPort. Inputs are serialized
// to Turtle and never mutated; ctx carries the caller's deadline.
func (v *HTTPValidator) Validate(ctx context.Context, dataGraph *rdf.Graph, shapes []byte, ontology []byte) (*ports.RawValidationResult, error) {
	reqBody := validateRequest{
		DataGraph:     dataGraph.EncodeTurtle(),
		ShapesGraph:   string(shapes),
		OntologyGraph: string(ontology),
		Inference:     v.Inference,
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.BaseURL+"/validate", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, core.NewValidatorError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, core.NewValidatorError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewValidatorError(fmt.Errorf("service returned %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var out validateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, core.NewValidatorError(fmt.Errorf("decode response: %w", err))
	}

	return &ports.RawValidationResult{
		Conforms:   out.Conforms,
		Violations: out.Violations,
		Report:     out.Report,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
