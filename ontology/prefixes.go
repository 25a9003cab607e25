package ontology

// Well-known vocabulary namespaces and their canonical short prefixes.
//
// References:
// - OWL: https://www.w3.org/TR/owl2-overview/
// - SKOS: https://www.w3.org/TR/skos-reference/
// - Dublin Core: https://www.dublincore.org/specifications/dublin-core/dcmi-terms/
// - PROV-O: https://www.w3.org/TR/prov-o/
const (
	NamespaceRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL     = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD     = "http://www.w3.org/2001/XMLSchema#"
	NamespaceSKOS    = "http://www.w3.org/2004/02/skos/core#"
	NamespaceDC      = "http://purl.org/dc/elements/1.1/"
	NamespaceDCTerms = "http://purl.org/dc/terms/"
	NamespaceFOAF    = "http://xmlns.com/foaf/0.1/"
	NamespaceSchema  = "https://schema.org/"
	NamespacePROV    = "http://www.w3.org/ns/prov#"
)

// wellKnownPrefixes maps canonical short prefixes to vocabulary namespaces.
// Namespaces derived from fetched elements get a shorthand only when they
// appear here; everything else stays usable as a full IRI.
var wellKnownPrefixes = map[string]string{
	"rdf":     NamespaceRDF,
	"rdfs":    NamespaceRDFS,
	"owl":     NamespaceOWL,
	"xsd":     NamespaceXSD,
	"skos":    NamespaceSKOS,
	"dc":      NamespaceDC,
	"dcterms": NamespaceDCTerms,
	"foaf":    NamespaceFOAF,
	"schema":  NamespaceSchema,
	"prov":    NamespacePROV,
}

// prefixByNamespace is the reverse index of wellKnownPrefixes.
var prefixByNamespace = func() map[string]string {
	m := make(map[string]string, len(wellKnownPrefixes))
	for prefix, ns := range wellKnownPrefixes {
		m[ns] = prefix
	}
	return m
}()

// PrefixFor returns the canonical short prefix for a well-known vocabulary
// namespace, or false for namespaces without one.
func PrefixFor(namespace string) (string, bool) {
	prefix, ok := prefixByNamespace[namespace]
	return prefix, ok
}

// WellKnownPrefixes returns a copy of the canonical prefix table.
func WellKnownPrefixes() map[string]string {
	m := make(map[string]string, len(wellKnownPrefixes))
	for prefix, ns := range wellKnownPrefixes {
		m[prefix] = ns
	}
	return m
}
