package sparql

import (
	"encoding/json"
	"fmt"
)

// SPARQL 1.1 Query Results JSON Format wire shapes.
// https://www.w3.org/TR/sparql11-results-json/
type jsonResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]jsonBinding `json:"bindings"`
	} `json:"results"`
}

type jsonBinding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	XMLLang  string `json:"xml:lang"`
	Datatype string `json:"datatype"`
}

// ParseResults decodes an application/sparql-results+json document into a
// ResultTable. Typed literals keep their plain string value.
func ParseResults(data []byte) (*ResultTable, error) {
	var doc jsonResults
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sparql results: %w", err)
	}

	table := &ResultTable{
		Columns: doc.Head.Vars,
		Rows:    make([]Row, 0, len(doc.Results.Bindings)),
	}
	for _, binding := range doc.Results.Bindings {
		row := make(Row, len(binding))
		for name, b := range binding {
			row[name] = Value{
				Type:     parseValueType(b.Type),
				Value:    b.Value,
				Lang:     b.XMLLang,
				Datatype: b.Datatype,
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func parseValueType(s string) ValueType {
	switch s {
	case "uri":
		return ValueIRI
	case "bnode":
		return ValueBNode
	case "literal", "typed-literal":
		return ValueLiteral
	default:
		// Unknown term kinds degrade to literals rather than failing the row.
		return ValueLiteral
	}
}
