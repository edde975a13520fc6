package rdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Well-known IRIs used across the validator.
const (
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	XSDFloat   = "http://www.w3.org/2001/XMLSchema#float"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
)

// Term is one node in a triple: either an IRI or a typed literal.
type Term struct {
	IRI      string // set for IRI terms
	Literal  string // lexical form for literal terms
	Datatype string // literal datatype IRI; empty means plain string
}

// IsIRI reports whether the term is an IRI reference.
func (t Term) IsIRI() bool { return t.IRI != "" }

// IRITerm creates an IRI term.
func IRITerm(iri string) Term { return Term{IRI: iri} }

// StringLiteral creates a plain string literal.
func StringLiteral(v string) Term { return Term{Literal: v} }

// FloatLiteral creates an xsd:float literal.
func FloatLiteral(v float64) Term {
	return Term{Literal: strconv.FormatFloat(v, 'g', -1, 64), Datatype: XSDFloat}
}

// IntLiteral creates an xsd:integer literal.
func IntLiteral(v int) Term {
	return Term{Literal: strconv.Itoa(v), Datatype: XSDInteger}
}

// BoolLiteral creates an xsd:boolean literal.
func BoolLiteral(v bool) Term {
	return Term{Literal: strconv.FormatBool(v), Datatype: XSDBoolean}
}

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   string // subject IRI
	Predicate string // predicate IRI
	Object    Term
}

// Graph is an in-memory triple collection for one validation run.
// It preserves insertion order; runs never share a graph, so no locking.
type Graph struct {
	triples []Triple
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends one triple.
func (g *Graph) Add(subject, predicate string, object Term) {
	g.triples = append(g.triples, Triple{Subject: subject, Predicate: predicate, Object: object})
}

// AddType asserts an rdf:type edge.
func (g *Graph) AddType(subject, class string) {
	g.Add(subject, RDFType, IRITerm(class))
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns a copy of the triple list.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Subjects returns the distinct subject IRIs in insertion order.
func (g *Graph) Subjects() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range g.triples {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

// ObjectsFor returns the objects of all triples matching subject and predicate.
func (g *Graph) ObjectsFor(subject, predicate string) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.Subject == subject && t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}

// EncodeTurtle serializes the graph as Turtle, grouped by subject with
// subjects and predicates sorted for deterministic output.
func (g *Graph) EncodeTurtle() string {
	bySubject := make(map[string][]Triple)
	for _, t := range g.triples {
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	var b strings.Builder
	for _, s := range subjects {
		ts := bySubject[s]
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Predicate < ts[j].Predicate })
		for _, t := range ts {
			b.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", t.Subject, t.Predicate, encodeTerm(t.Object)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func encodeTerm(t Term) string {
	if t.IsIRI() {
		return "<" + t.IRI + ">"
	}
	lit := `"` + escapeLiteral(t.Literal) + `"`
	if t.Datatype != "" {
		lit += "^^<" + t.Datatype + ">"
	}
	return lit
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
