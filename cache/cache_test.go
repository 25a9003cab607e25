package cache

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sparqldesk/sparqldesk/backend"
	"github.com/sparqldesk/sparqldesk/ontology"
	"github.com/sparqldesk/sparqldesk/sparql"
)

// Distinct template markers so the fake executor can key results by query.
const (
	classQuery      = "CLASS-QUERY"
	propertyQuery   = "PROPERTY-QUERY"
	individualQuery = "INDIVIDUAL-QUERY"
)

// fakeExecutor returns canned tables keyed by query string and records the
// order of executed queries. A non-nil block channel makes Execute wait
// until it is closed, simulating a slow endpoint.
type fakeExecutor struct {
	mu      sync.Mutex
	results map[string]*sparql.ResultTable
	errs    map[string]error
	calls   []string
	block   chan struct{}
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		results: make(map[string]*sparql.ResultTable),
		errs:    make(map[string]error),
	}
}

func (f *fakeExecutor) Execute(_ context.Context, query string) (*sparql.ResultTable, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	if table := f.results[query]; table != nil {
		return table, nil
	}
	return &sparql.ResultTable{}, nil
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExecutor) callsCopy() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeExecutor) setResult(query string, table *sparql.ResultTable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = table
}

func (f *fakeExecutor) setError(query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[query] = err
}

func iriVal(s string) sparql.Value {
	return sparql.Value{Type: sparql.ValueIRI, Value: s}
}

func litVal(s string) sparql.Value {
	return sparql.Value{Type: sparql.ValueLiteral, Value: s}
}

func table(rows ...sparql.Row) *sparql.ResultTable {
	return &sparql.ResultTable{Rows: rows}
}

func testBackendConfig(id string) backend.Config {
	return backend.Config{
		ID:       id,
		Endpoint: "http://localhost:3030/test/sparql",
		Cache: backend.CacheConfig{
			Enabled:     true,
			TTL:         time.Hour,
			MaxElements: 100,
			Queries: backend.QueryTemplates{
				Classes:     classQuery,
				Properties:  propertyQuery,
				Individuals: individualQuery,
			},
		},
	}
}

// newTestService wires a service over a memory store and one registered
// backend driven by a fake executor.
func newTestService(t *testing.T, cfg backend.Config) (*Service, *fakeExecutor, *MemoryStore, *backend.Registry) {
	t.Helper()

	exec := newFakeExecutor()
	// Plausible default data: two foaf classes, one folded property, one
	// individual.
	exec.setResult(classQuery, table(
		sparql.Row{"iri": iriVal(ontology.NamespaceFOAF + "Person"), "label": litVal("Person"), "description": litVal("A person.")},
		sparql.Row{"iri": iriVal(ontology.NamespaceFOAF + "Agent"), "label": litVal("Agent")},
	))
	exec.setResult(propertyQuery, table(
		sparql.Row{
			"iri":          iriVal(ontology.NamespaceFOAF + "knows"),
			"propertyType": iriVal(ontology.NamespaceOWL + "ObjectProperty"),
			"label":        litVal("knows"),
			"domain":       iriVal(ontology.NamespaceFOAF + "Person"),
			"range":        iriVal(ontology.NamespaceFOAF + "Person"),
		},
	))
	exec.setResult(individualQuery, table(
		sparql.Row{"iri": iriVal("http://example.org/people/alice"), "label": litVal("Alice"), "class": iriVal(ontology.NamespaceFOAF + "Person")},
	))

	registry := backend.NewRegistry(testLogger())
	if err := registry.RegisterExecutor(cfg, exec); err != nil {
		t.Fatalf("register backend: %v", err)
	}

	store := NewMemoryStore()
	svc := NewService(store, registry, testLogger())
	return svc, exec, store, registry
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
