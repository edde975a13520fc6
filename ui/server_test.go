package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ocev/adapters/memory"
	"ocev/adapters/shacl"
	"ocev/app"
	"ocev/domain/ontology"
	"ocev/internal/report"
	"ocev/ports"
)

func newTestServer(t *testing.T, mock *shacl.MockValidator) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	builder := ontology.NewGraphBuilder(ontology.NewRegistry())
	repo := memory.NewRunRepository()
	svc, err := app.NewValidationService(builder, mock, repo,
		[]byte("@prefix sh: <http://www.w3.org/ns/shacl#> .\n"), nil, app.DefaultValidationConfig())
	if err != nil {
		t.Fatalf("NewValidationService: %v", err)
	}
	return NewServer(Config{GinMode: gin.TestMode}, svc, report.NewGenerator())
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})
	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestValidateEvidenceEndpoint(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	payload := `[{
		"status": "final",
		"statisticalTest": {"coding": [{"code": "t-test"}]},
		"statistic": [{"type": "t", "value": 2.3}],
		"pValue": {"value": 0.02},
		"license": "CC-BY-4.0",
		"identifier": [{"value": "10.1234/x"}]
	}]`
	req := httptest.NewRequest(http.MethodPost, "/api/validate/evidence", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := doRequest(t, s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result ports.RunResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.RunID == "" {
		t.Error("run ID missing from response")
	}
	if result.Scores.Overall <= 0 {
		t.Errorf("overall = %f, expected a scored run", result.Scores.Overall)
	}
}

func TestValidateEvidenceRejectsMalformedPayload(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	req := httptest.NewRequest(http.MethodPost, "/api/validate/evidence", strings.NewReader(`"nope"`))
	w := doRequest(t, s, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestValidateCSVEndpoint(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "trial.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("patient_id,group,outcome\n1,treatment,78.2\n2,treatment,81.5\n3,control,65.1\n4,control,62.8\n"))
	mw.WriteField("evidence_type", "t-test")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/validate/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := doRequest(t, s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestValidateCSVRejectsUnknownType(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "trial.csv")
	fw.Write([]byte("a,b\n1,2\n"))
	mw.WriteField("evidence_type", "anova")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/validate/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := doRequest(t, s, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerateSyntheticEndpoint(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	form := strings.NewReader("n_samples=20&evidence_type=chi-square&seed=7")
	req := httptest.NewRequest(http.MethodPost, "/api/generate/synthetic", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(t, s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "records") {
		t.Error("generated records missing from response")
	}
}

func TestResultsAndReportEndpoints(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	// Seed one run through the API.
	payload := `{"status": "final", "statisticalTest": {"coding": [{"code": "t-test"}]}, "pValue": {"value": 0.02}}`
	req := httptest.NewRequest(http.MethodPost, "/api/validate/evidence", strings.NewReader(payload))
	w := doRequest(t, s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("seed run failed: %d %s", w.Code, w.Body.String())
	}
	var result ports.RunResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := result.RunID.String()

	tests := []struct {
		path        string
		contentType string
	}{
		{"/api/results/" + id, "application/json"},
		{"/api/report/" + id + "/json", "application/json"},
		{"/api/report/" + id + "/ttl", "text/turtle"},
		{"/api/report/" + id + "/html", "text/html"},
	}
	for _, tt := range tests {
		w := doRequest(t, s, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", tt.path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
			t.Errorf("%s: content type = %s, want %s", tt.path, ct, tt.contentType)
		}
	}
}

func TestResultsNotFound(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})
	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/results/absent-run", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestValidatorFailureSurfacesAsBadGateway(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{Error: http.ErrHandlerTimeout})

	payload := `{"status": "final", "statisticalTest": {"coding": [{"code": "t-test"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/validate/evidence", strings.NewReader(payload))
	w := doRequest(t, s, req)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestListRunsEndpoint(t *testing.T) {
	s := newTestServer(t, &shacl.MockValidator{})

	payload := `{"status": "final", "statisticalTest": {"coding": [{"code": "t-test"}]}}`
	doRequest(t, s, httptest.NewRequest(http.MethodPost, "/api/validate/evidence", strings.NewReader(payload)))

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/runs?limit=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
