// Package ontology defines the denormalized ontology element model cached
// per backend: classes, properties, and individuals harvested from a remote
// graph database, flattened to the few fields autocomplete and assistant
// lookups need.
package ontology

import "strings"

// Kind identifies one of the three element variants.
type Kind string

const (
	KindClass      Kind = "class"
	KindProperty   Kind = "property"
	KindIndividual Kind = "individual"
)

// Kinds lists all element kinds in fetch order.
var Kinds = []Kind{KindClass, KindProperty, KindIndividual}

// PropertyType classifies a property element.
type PropertyType string

const (
	PropertyTypeObject     PropertyType = "object"
	PropertyTypeDatatype   PropertyType = "datatype"
	PropertyTypeAnnotation PropertyType = "annotation"
)

// Element holds the fields shared by every cached ontology element.
// Namespace and LocalName are derived from the IRI by SplitIRI; when both
// are set, Namespace+LocalName reassembles the IRI.
type Element struct {
	IRI         string `json:"iri"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	LocalName   string `json:"localName,omitempty"`
}

// Class is an ontology class (owl:Class or rdfs:Class).
type Class struct {
	Element
}

// Property is an ontology property with its asserted domains and ranges.
type Property struct {
	Element
	PropertyType PropertyType `json:"propertyType"`
	Domain       []string     `json:"domain,omitempty"`
	Range        []string     `json:"range,omitempty"`
}

// Individual is a named individual with its asserted class IRIs.
type Individual struct {
	Element
	Classes []string `json:"classes,omitempty"`
}

// Item is implemented by all three element variants. Search and lookup
// operate on Items so one ranked result list can mix kinds.
type Item interface {
	Base() *Element
	Kind() Kind
}

func (c *Class) Base() *Element      { return &c.Element }
func (c *Class) Kind() Kind          { return KindClass }
func (p *Property) Base() *Element   { return &p.Element }
func (p *Property) Kind() Kind       { return KindProperty }
func (i *Individual) Base() *Element { return &i.Element }
func (i *Individual) Kind() Kind     { return KindIndividual }

// NewElement builds an Element from an IRI plus optional label and
// description, deriving the namespace and local name.
func NewElement(iri, label, description string) Element {
	ns, local := SplitIRI(iri)
	return Element{
		IRI:         iri,
		Label:       label,
		Description: description,
		Namespace:   ns,
		LocalName:   local,
	}
}

// SplitIRI splits an IRI into namespace and local name at the last '#', or
// the last '/' when no fragment is present. IRIs with neither separator have
// no namespace; the local name is the full IRI.
func SplitIRI(iri string) (namespace, localName string) {
	if idx := strings.LastIndex(iri, "#"); idx >= 0 {
		return iri[:idx+1], iri[idx+1:]
	}
	if idx := strings.LastIndex(iri, "/"); idx >= 0 {
		return iri[:idx+1], iri[idx+1:]
	}
	return "", iri
}

// ParseKind validates a kind string. Returns false for unknown kinds.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindClass, KindProperty, KindIndividual:
		return Kind(s), true
	default:
		return "", false
	}
}

// ParsePropertyType maps a property-class IRI or bare keyword to a
// PropertyType. Unrecognized values default to object properties, which is
// what most endpoints return for untyped predicates.
func ParsePropertyType(s string) PropertyType {
	switch {
	case strings.Contains(s, "Datatype"), s == string(PropertyTypeDatatype):
		return PropertyTypeDatatype
	case strings.Contains(s, "Annotation"), s == string(PropertyTypeAnnotation):
		return PropertyTypeAnnotation
	default:
		return PropertyTypeObject
	}
}
