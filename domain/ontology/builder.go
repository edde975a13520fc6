package ontology

import (
	"fmt"

	"ocev/domain/evidence"
	"ocev/domain/rdf"
)

// GraphBuilder projects evidence records onto the STATO ontology, producing
// the data graph submitted for constraint validation. One subject node per
// record; records with unrecognized test types still get a node (untyped),
// they are never dropped.
type GraphBuilder struct {
	registry *Registry
}

// NewGraphBuilder creates a builder over the given type registry.
func NewGraphBuilder(registry *Registry) *GraphBuilder {
	return &GraphBuilder{registry: registry}
}

// Build converts the records into a fresh semantic graph. The graph lives
// for one validation run only.
func (b *GraphBuilder) Build(records []evidence.Record) *rdf.Graph {
	g := rdf.NewGraph()
	for idx := range records {
		b.addRecord(g, idx, &records[idx])
	}
	return g
}

// SubjectIRI returns the synthetic subject IRI for the record at idx.
func SubjectIRI(idx int) string {
	return fmt.Sprintf("%s%d", EntityNamespace, idx)
}

func (b *GraphBuilder) addRecord(g *rdf.Graph, idx int, rec *evidence.Record) {
	subject := SubjectIRI(idx)

	if entry, ok := b.registry.Lookup(rec.TestType); ok {
		g.AddType(subject, entry.Class)
		entry.Mapper(g, subject, rec)
	}

	// FAIR provenance edges are type-independent and unconditional.
	if rec.License != "" {
		g.Add(subject, PropLicense, rdf.StringLiteral(rec.License))
	}
	if id, ok := rec.PrimaryIdentifier(); ok {
		g.Add(subject, PropIdentifier, rdf.StringLiteral(id))
	}
	if rec.Version != "" {
		g.Add(subject, PropVersion, rdf.StringLiteral(rec.Version))
	}
}

// MinimalOntologyGraph builds the built-in background ontology: the four
// known test classes declared as OWL classes. Used when no external
// ontology resource is configured.
func MinimalOntologyGraph() *rdf.Graph {
	const owlClass = "http://www.w3.org/2002/07/owl#Class"
	g := rdf.NewGraph()
	for _, class := range []string{ClassTTest, ClassChiSquare, ClassLogisticRegression, ClassKaplanMeier} {
		g.AddType(class, owlClass)
	}
	return g
}
