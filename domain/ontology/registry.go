package ontology

import (
	"ocev/domain/evidence"
	"ocev/domain/rdf"
)

// PropertyMapper attaches the test-specific property edges for one record.
// Mappers skip absent optional fields silently; the constraint stage is
// responsible for flagging the resulting gaps.
type PropertyMapper func(g *rdf.Graph, subject string, rec *evidence.Record)

// TypeEntry binds one test type to its ontology class and property mapper.
type TypeEntry struct {
	TestType   evidence.TestType
	Class      string
	Properties []string
	Mapper     PropertyMapper
}

// Registry maps test-type identifiers to ontology classes and property
// rules. It is immutable after construction and safe for concurrent reads.
type Registry struct {
	entries map[evidence.TestType]TypeEntry
}

// NewRegistry builds the built-in type registry covering the four known
// test types. This is the minimal fallback used when no external ontology
// resource is configured; an external resource only enriches the background
// graph handed to the constraint validator, never this mapping.
func NewRegistry() *Registry {
	entries := map[evidence.TestType]TypeEntry{
		evidence.TestTTest: {
			TestType:   evidence.TestTTest,
			Class:      ClassTTest,
			Properties: []string{PropDependentVariable, PropIndependentVariable, PropPValue},
			Mapper:     mapTTest,
		},
		evidence.TestChiSquare: {
			TestType:   evidence.TestChiSquare,
			Class:      ClassChiSquare,
			Properties: []string{PropDependentVariable, PropSampleSize},
			Mapper:     mapChiSquare,
		},
		evidence.TestLogisticRegression: {
			TestType:   evidence.TestLogisticRegression,
			Class:      ClassLogisticRegression,
			Properties: []string{PropDependentVariable, PropCoefficient, PropOddsRatio},
			Mapper:     mapLogisticRegression,
		},
		evidence.TestKaplanMeier: {
			TestType:   evidence.TestKaplanMeier,
			Class:      ClassKaplanMeier,
			Properties: []string{PropTimeVariable, PropEventStatus},
			Mapper:     mapKaplanMeier,
		},
	}
	return &Registry{entries: entries}
}

// Lookup returns the entry for a test type. Unknown types return ok=false,
// which is not an error: the record is still graphed, just without a class
// assertion, and the sparser graph surfaces as unmet constraints downstream.
func (r *Registry) Lookup(t evidence.TestType) (TypeEntry, bool) {
	e, ok := r.entries[t]
	return e, ok
}

// Types returns the registered test types.
func (r *Registry) Types() []evidence.TestType {
	out := make([]evidence.TestType, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	return out
}

func mapTTest(g *rdf.Graph, subject string, rec *evidence.Record) {
	if v, ok := rec.PrimaryStatistic(); ok {
		g.Add(subject, PropDependentVariable, rdf.FloatLiteral(v))
	}
	for _, group := range rec.Variables {
		g.Add(subject, PropIndependentVariable, rdf.StringLiteral(variableLabel(group)))
	}
	if rec.PValue != nil {
		g.Add(subject, PropPValue, rdf.FloatLiteral(*rec.PValue))
	}
}

func mapChiSquare(g *rdf.Graph, subject string, rec *evidence.Record) {
	for _, cat := range rec.Variables {
		g.Add(subject, PropDependentVariable, rdf.StringLiteral(variableLabel(cat)))
	}
	if rec.SampleSize != nil {
		g.Add(subject, PropSampleSize, rdf.IntLiteral(*rec.SampleSize))
	}
}

func mapLogisticRegression(g *rdf.Graph, subject string, rec *evidence.Record) {
	if rec.Outcome != nil {
		g.Add(subject, PropDependentVariable, rdf.BoolLiteral(*rec.Outcome))
	}
	for _, coeff := range rec.Coefficients {
		g.Add(subject, PropCoefficient, rdf.FloatLiteral(coeff))
	}
	for _, or := range rec.OddsRatios {
		g.Add(subject, PropOddsRatio, rdf.FloatLiteral(or))
	}
}

func mapKaplanMeier(g *rdf.Graph, subject string, rec *evidence.Record) {
	for _, t := range rec.TimeToEvent {
		g.Add(subject, PropTimeVariable, rdf.FloatLiteral(t))
	}
	for _, e := range rec.EventStatus {
		g.Add(subject, PropEventStatus, rdf.BoolLiteral(e))
	}
}

func variableLabel(v evidence.Variable) string {
	if v.Value != "" {
		return v.Name + "=" + v.Value
	}
	return v.Name
}
