// Package sparql defines the typed boundary to SPARQL endpoints: an executor
// capability that turns a query into tabular bindings, the binding value
// types, and an HTTP implementation speaking the SPARQL 1.1 Protocol.
package sparql

import "context"

// ValueType distinguishes the RDF term kinds a binding can carry.
type ValueType string

const (
	ValueIRI     ValueType = "uri"
	ValueLiteral ValueType = "literal"
	ValueBNode   ValueType = "bnode"
)

// Value is a single bound RDF term. Literal values carry the plain string
// form regardless of datatype; numeric and date literals are not parsed here.
type Value struct {
	Type     ValueType `json:"type"`
	Value    string    `json:"value"`
	Lang     string    `json:"lang,omitempty"`
	Datatype string    `json:"datatype,omitempty"`
}

// IsIRI reports whether the value is an IRI term.
func (v Value) IsIRI() bool { return v.Type == ValueIRI }

// Row maps variable names to bound values. Unbound variables are absent.
type Row map[string]Value

// ResultTable is a complete tabular query result.
type ResultTable struct {
	Columns []string
	Rows    []Row
}

// Executor executes a SPARQL query and returns its tabular bindings. This is
// the one capability the cache core consumes from the transport layer.
type Executor interface {
	Execute(ctx context.Context, query string) (*ResultTable, error)
}
