package ontology

import (
	"testing"
)

func testCache() *Cache {
	c := &Cache{
		Metadata: Metadata{BackendID: "b1", Version: SchemaVersion},
		Classes: []Class{
			{Element: NewElement(NamespaceFOAF+"Person", "Person", "")},
		},
		Properties: []Property{
			{Element: NewElement(NamespaceFOAF+"knows", "knows", ""), PropertyType: PropertyTypeObject},
		},
		Individuals: []Individual{
			{Element: NewElement("http://example.org/people/alice", "Alice", "")},
		},
		Namespaces: map[string]string{
			"foaf": NamespaceFOAF,
			"rdfs": NamespaceRDFS,
		},
	}
	c.FinalizeStats()
	return c
}

func TestFinalizeStats(t *testing.T) {
	c := testCache()
	s := c.Metadata.Stats
	if s.Classes != 1 || s.Properties != 1 || s.Individuals != 1 {
		t.Errorf("unexpected per-kind counts: %+v", s)
	}
	if s.Total != 3 {
		t.Errorf("total = %d, want 3", s.Total)
	}
	if s.Namespaces != 2 {
		t.Errorf("namespaces = %d, want 2", s.Namespaces)
	}
	if s.SizeBytes <= 0 {
		t.Error("expected positive approximate size")
	}
}

func TestItemsOrder(t *testing.T) {
	c := testCache()
	items := c.Items()
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	wantKinds := []Kind{KindClass, KindProperty, KindIndividual}
	for i, item := range items {
		if item.Kind() != wantKinds[i] {
			t.Errorf("item %d kind = %s, want %s", i, item.Kind(), wantKinds[i])
		}
	}
}

func TestPrefixedName(t *testing.T) {
	c := testCache()

	name, ok := c.PrefixedName(NamespaceFOAF + "Person")
	if !ok || name != "foaf:Person" {
		t.Errorf("PrefixedName = %q, %v", name, ok)
	}

	// Bare namespace compresses to nothing useful.
	if _, ok := c.PrefixedName(NamespaceFOAF); ok {
		t.Error("expected no prefixed name for a bare namespace IRI")
	}

	if _, ok := c.PrefixedName("http://example.org/other#Thing"); ok {
		t.Error("expected no prefixed name for unregistered namespace")
	}
}

func TestExpandPrefixed(t *testing.T) {
	c := testCache()

	iri, ok := c.ExpandPrefixed("foaf:Person")
	if !ok || iri != NamespaceFOAF+"Person" {
		t.Errorf("ExpandPrefixed = %q, %v", iri, ok)
	}

	if _, ok := c.ExpandPrefixed("unknown:Thing"); ok {
		t.Error("expected failure for unknown prefix")
	}
	if _, ok := c.ExpandPrefixed("nocolon"); ok {
		t.Error("expected failure without a colon")
	}
}

func TestPrefixedNameRoundTrip(t *testing.T) {
	c := testCache()
	orig := NamespaceFOAF + "knows"
	name, ok := c.PrefixedName(orig)
	if !ok {
		t.Fatal("compression failed")
	}
	back, ok := c.ExpandPrefixed(name)
	if !ok || back != orig {
		t.Errorf("round trip = %q, want %q", back, orig)
	}
}
