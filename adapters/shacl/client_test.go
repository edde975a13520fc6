package shacl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ocev/domain/core"
	"ocev/domain/rdf"
)

func sampleGraph() *rdf.Graph {
	g := rdf.NewGraph()
	g.AddType("http://example.org/evidence/0", "http://purl.obolibrary.org/obo/STATO_0000176")
	return g
}

func TestValidateSubmitsTurtleAndDecodesVerdict(t *testing.T) {
	var received validateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validate" {
			t.Errorf("path = %s, want /validate", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(validateResponse{
			Conforms:   false,
			Violations: []string{"missing license"},
			Report:     "Conforms: False\nConstraint Violation: license\n",
		})
	}))
	defer server.Close()

	v, err := NewValidator(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	result, err := v.Validate(context.Background(), sampleGraph(), []byte("shapes-doc"), []byte("ontology-doc"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Conforms {
		t.Error("expected non-conforming verdict")
	}
	if len(result.Violations) != 1 || result.Violations[0] != "missing license" {
		t.Errorf("violations = %v", result.Violations)
	}
	if !strings.Contains(received.DataGraph, "STATO_0000176") {
		t.Errorf("data graph not serialized as Turtle: %q", received.DataGraph)
	}
	if received.ShapesGraph != "shapes-doc" || received.OntologyGraph != "ontology-doc" {
		t.Error("shapes or ontology document not forwarded")
	}
	if received.Inference != "rdfs" {
		t.Errorf("inference = %s, want default rdfs", received.Inference)
	}
}

func TestValidateNonOKStatusIsValidatorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	v, err := NewValidator(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	_, err = v.Validate(context.Background(), sampleGraph(), []byte("shapes"), nil)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !core.IsValidatorError(err) {
		t.Errorf("error %v should satisfy the validator-error check", err)
	}
}

func TestValidateUnreachableServiceIsValidatorError(t *testing.T) {
	v, err := NewValidator(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	_, err = v.Validate(context.Background(), sampleGraph(), []byte("shapes"), nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !core.IsValidatorError(err) {
		t.Errorf("error %v should satisfy the validator-error check", err)
	}
}

func TestNewValidatorRequiresURL(t *testing.T) {
	if _, err := NewValidator(Config{}); err == nil {
		t.Fatal("missing base URL must be rejected")
	}
}
