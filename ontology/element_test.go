package ontology

import (
	"testing"
)

func TestSplitIRI(t *testing.T) {
	tests := []struct {
		iri       string
		namespace string
		localName string
	}{
		{"http://xmlns.com/foaf/0.1/Person", "http://xmlns.com/foaf/0.1/", "Person"},
		{"http://www.w3.org/2000/01/rdf-schema#label", "http://www.w3.org/2000/01/rdf-schema#", "label"},
		{"http://example.org/onto#a/b", "http://example.org/onto#", "a/b"},
		{"urn:isbn:0451450523", "", "urn:isbn:0451450523"},
		{"", "", ""},
	}

	for _, tc := range tests {
		ns, local := SplitIRI(tc.iri)
		if ns != tc.namespace {
			t.Errorf("SplitIRI(%q) namespace = %q, want %q", tc.iri, ns, tc.namespace)
		}
		if local != tc.localName {
			t.Errorf("SplitIRI(%q) localName = %q, want %q", tc.iri, local, tc.localName)
		}
	}
}

func TestSplitIRIReassembles(t *testing.T) {
	iris := []string{
		"http://xmlns.com/foaf/0.1/Person",
		"http://www.w3.org/2002/07/owl#Class",
		"https://example.org/path/to/Thing",
	}
	for _, iri := range iris {
		ns, local := SplitIRI(iri)
		if ns == "" {
			t.Errorf("expected namespace for %q", iri)
			continue
		}
		if ns+local != iri {
			t.Errorf("namespace+localName = %q, want %q", ns+local, iri)
		}
	}
}

func TestNewElement(t *testing.T) {
	e := NewElement("http://xmlns.com/foaf/0.1/Person", "Person", "A person.")
	if e.Namespace != "http://xmlns.com/foaf/0.1/" {
		t.Errorf("unexpected namespace %q", e.Namespace)
	}
	if e.LocalName != "Person" {
		t.Errorf("unexpected localName %q", e.LocalName)
	}
	if e.Label != "Person" || e.Description != "A person." {
		t.Error("label/description not carried through")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(string(k))
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, ok)
		}
	}
	if _, ok := ParseKind("datatype"); ok {
		t.Error("expected ParseKind to reject unknown kind")
	}
}

func TestParsePropertyType(t *testing.T) {
	tests := []struct {
		in   string
		want PropertyType
	}{
		{"http://www.w3.org/2002/07/owl#ObjectProperty", PropertyTypeObject},
		{"http://www.w3.org/2002/07/owl#DatatypeProperty", PropertyTypeDatatype},
		{"http://www.w3.org/2002/07/owl#AnnotationProperty", PropertyTypeAnnotation},
		{"object", PropertyTypeObject},
		{"datatype", PropertyTypeDatatype},
		{"annotation", PropertyTypeAnnotation},
		{"", PropertyTypeObject},
	}
	for _, tc := range tests {
		if got := ParsePropertyType(tc.in); got != tc.want {
			t.Errorf("ParsePropertyType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrefixFor(t *testing.T) {
	prefix, ok := PrefixFor(NamespaceFOAF)
	if !ok || prefix != "foaf" {
		t.Errorf("PrefixFor(foaf namespace) = %q, %v", prefix, ok)
	}
	if _, ok := PrefixFor("http://example.org/custom#"); ok {
		t.Error("expected no prefix for unknown namespace")
	}
}
