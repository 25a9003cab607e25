package backend

// Bundled query templates. Each binds ?iri (required by the fetch engine)
// plus optional ?label and ?description, preferring Dublin Core terms over
// RDFS via COALESCE. Property rows additionally bind ?propertyType, ?domain
// and ?range; individual rows bind ?class. Repeated bindings for one IRI are
// folded by the fetch engine.

// DefaultClassQuery lists owl:Class and rdfs:Class declarations.
const DefaultClassQuery = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX dcterms: <http://purl.org/dc/terms/>

SELECT DISTINCT ?iri ?label ?description WHERE {
  { ?iri a owl:Class } UNION { ?iri a rdfs:Class }
  FILTER(isIRI(?iri))
  OPTIONAL { ?iri rdfs:label ?rdfsLabel }
  OPTIONAL { ?iri dcterms:title ?dcLabel }
  OPTIONAL { ?iri rdfs:comment ?rdfsComment }
  OPTIONAL { ?iri dcterms:description ?dcDescription }
  BIND(COALESCE(?dcLabel, ?rdfsLabel) AS ?label)
  BIND(COALESCE(?dcDescription, ?rdfsComment) AS ?description)
}`

// DefaultPropertyQuery lists object, datatype and annotation properties with
// their asserted domains and ranges.
const DefaultPropertyQuery = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX dcterms: <http://purl.org/dc/terms/>

SELECT DISTINCT ?iri ?propertyType ?label ?description ?domain ?range WHERE {
  VALUES ?propertyType { owl:ObjectProperty owl:DatatypeProperty owl:AnnotationProperty rdf:Property }
  ?iri a ?propertyType .
  FILTER(isIRI(?iri))
  OPTIONAL { ?iri rdfs:label ?rdfsLabel }
  OPTIONAL { ?iri dcterms:title ?dcLabel }
  OPTIONAL { ?iri rdfs:comment ?rdfsComment }
  OPTIONAL { ?iri dcterms:description ?dcDescription }
  OPTIONAL { ?iri rdfs:domain ?domain }
  OPTIONAL { ?iri rdfs:range ?range }
  BIND(COALESCE(?dcLabel, ?rdfsLabel) AS ?label)
  BIND(COALESCE(?dcDescription, ?rdfsComment) AS ?description)
}`

// DefaultIndividualQuery lists named individuals with their asserted types.
const DefaultIndividualQuery = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX dcterms: <http://purl.org/dc/terms/>

SELECT DISTINCT ?iri ?label ?description ?class WHERE {
  ?iri a ?class .
  ?class a owl:Class .
  FILTER(isIRI(?iri))
  FILTER NOT EXISTS { ?iri a owl:Class }
  OPTIONAL { ?iri rdfs:label ?rdfsLabel }
  OPTIONAL { ?iri dcterms:title ?dcLabel }
  OPTIONAL { ?iri rdfs:comment ?rdfsComment }
  OPTIONAL { ?iri dcterms:description ?dcDescription }
  BIND(COALESCE(?dcLabel, ?rdfsLabel) AS ?label)
  BIND(COALESCE(?dcDescription, ?rdfsComment) AS ?description)
}`
