package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ocev/domain/rdf"
	"ocev/ports"
)

// Namespace for run-report vocabulary terms.
const Namespace = "http://example.org/ocev/"

// Report property IRIs.
const (
	classValidationResult = Namespace + "ValidationResult"
	propOverallScore      = Namespace + "overallScore"
	propIntegrityScore    = Namespace + "integrityScore"
	propFairnessScore     = Namespace + "fairnessScore"
	propComplianceScore   = Namespace + "fhirScore"
	propConforms          = Namespace + "conforms"
	propConstraintsPassed = Namespace + "constraintsPassed"
	propConstraintsTotal  = Namespace + "constraintsTotal"
)

// Generator renders a completed run in the downstream report formats.
type Generator struct{}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// JSON renders the full run result, diagnostics raw text included.
func (g *Generator) JSON(result *ports.RunResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// Turtle renders the run summary as RDF.
func (g *Generator) Turtle(result *ports.RunResult) string {
	graph := rdf.NewGraph()
	subject := Namespace + "validation/" + result.RunID.String()

	graph.AddType(subject, classValidationResult)
	graph.Add(subject, propOverallScore, rdf.FloatLiteral(result.Scores.Overall))
	graph.Add(subject, propIntegrityScore, rdf.FloatLiteral(result.Scores.Integrity))
	graph.Add(subject, propFairnessScore, rdf.FloatLiteral(result.Scores.Fairness))
	graph.Add(subject, propComplianceScore, rdf.FloatLiteral(result.Scores.FHIRCompliance))
	graph.Add(subject, propConforms, rdf.BoolLiteral(result.Diagnostics.Conforms))
	graph.Add(subject, propConstraintsPassed, rdf.IntLiteral(result.Diagnostics.ConstraintsPassing))
	graph.Add(subject, propConstraintsTotal, rdf.IntLiteral(result.Diagnostics.ConstraintsTotal))

	return graph.EncodeTurtle()
}

// Markdown renders the human-readable run summary.
func (g *Generator) Markdown(result *ports.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Clinical Evidence Validation Report\n\n")
	fmt.Fprintf(&b, "Run ID: `%s`  \n", result.RunID)
	fmt.Fprintf(&b, "Generated: %s  \n", result.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Evidence type: %s\n\n", result.EvidenceType)

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "**Overall Quality Score: %.2f/1.00**\n\n", result.Scores.Overall)

	fmt.Fprintf(&b, "| Metric | Score | Weight |\n")
	fmt.Fprintf(&b, "|---|---|---|\n")
	fmt.Fprintf(&b, "| Statistical Integrity | %.2f | 40%% |\n", result.Scores.Integrity)
	fmt.Fprintf(&b, "| FAIR Metadata | %.2f | 30%% |\n", result.Scores.Fairness)
	fmt.Fprintf(&b, "| Resource-Model Compliance | %.2f | 30%% |\n\n", result.Scores.FHIRCompliance)

	fmt.Fprintf(&b, "## Validation Details\n\n")
	conformance := "FAIL"
	if result.Diagnostics.Conforms {
		conformance = "PASS"
	}
	fmt.Fprintf(&b, "- Constraint conformance: %s\n", conformance)
	fmt.Fprintf(&b, "- Constraints passing: %d/%d\n", result.Diagnostics.ConstraintsPassing, result.Diagnostics.ConstraintsTotal)
	fmt.Fprintf(&b, "- Violations: %d\n\n", result.Diagnostics.ViolationCount())

	if len(result.Diagnostics.Violations) > 0 {
		fmt.Fprintf(&b, "### Violations\n\n")
		for _, v := range result.Diagnostics.Violations {
			fmt.Fprintf(&b, "- %s\n", v)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Feedback\n\n")
	fmt.Fprintf(&b, "- Integrity: %s\n", result.Feedback.Integrity)
	fmt.Fprintf(&b, "- FAIR: %s\n", result.Feedback.Fairness)
	fmt.Fprintf(&b, "- Resource model: %s\n", result.Feedback.FHIRCompliance)
	fmt.Fprintf(&b, "- Overall: %s\n\n", result.Feedback.Overall)

	fmt.Fprintf(&b, "## Evidence Characteristics\n\n")
	fmt.Fprintf(&b, "- Records: %d\n", len(result.Records))

	return b.String()
}

// HTML renders the markdown summary as a standalone HTML page.
func (g *Generator) HTML(result *ports.RunResult) []byte {
	md := []byte(g.Markdown(result))

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Evidence Validation Report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}
