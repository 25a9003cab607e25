package ontology

import (
	"encoding/json"
	"strings"
	"time"
)

// SchemaVersion is the current version of the persisted envelope shape,
// recorded in Metadata.Version for forward migration of stored caches.
const SchemaVersion = 1

// Stats summarizes the contents of a cache envelope. Counts must equal the
// envelope's array lengths at the moment the envelope is written.
type Stats struct {
	Classes     int `json:"classes"`
	Properties  int `json:"properties"`
	Individuals int `json:"individuals"`
	Total       int `json:"total"`
	Namespaces  int `json:"namespaces"`
	SizeBytes   int `json:"sizeBytes"`
}

// Metadata describes one backend's cache envelope.
type Metadata struct {
	BackendID   string `json:"backendId"`
	LastUpdated int64  `json:"lastUpdated"` // epoch milliseconds
	TTL         int64  `json:"ttl"`         // milliseconds
	Version     int    `json:"version"`
	Stats       Stats  `json:"stats"`
}

// Age returns the time elapsed since the envelope was written.
func (m Metadata) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(m.LastUpdated))
}

// Cache is the complete persisted envelope for one backend: metadata, the
// flat element arrays, and the derived prefix map. An envelope is always
// replaced in full; there is no partial or incremental merge.
type Cache struct {
	Metadata    Metadata          `json:"metadata"`
	Classes     []Class           `json:"classes"`
	Properties  []Property        `json:"properties"`
	Individuals []Individual      `json:"individuals"`
	Namespaces  map[string]string `json:"namespaces,omitempty"`
}

// ElementCount returns the total number of elements across all kinds.
func (c *Cache) ElementCount() int {
	return len(c.Classes) + len(c.Properties) + len(c.Individuals)
}

// Items returns every element in the envelope as a flat slice in kind order
// (classes, properties, individuals).
func (c *Cache) Items() []Item {
	items := make([]Item, 0, c.ElementCount())
	for i := range c.Classes {
		items = append(items, &c.Classes[i])
	}
	for i := range c.Properties {
		items = append(items, &c.Properties[i])
	}
	for i := range c.Individuals {
		items = append(items, &c.Individuals[i])
	}
	return items
}

// FinalizeStats recomputes the metadata stats from the envelope's current
// contents, including the approximate serialized size.
func (c *Cache) FinalizeStats() {
	c.Metadata.Stats = Stats{
		Classes:     len(c.Classes),
		Properties:  len(c.Properties),
		Individuals: len(c.Individuals),
		Total:       c.ElementCount(),
		Namespaces:  len(c.Namespaces),
	}
	if data, err := json.Marshal(c); err == nil {
		c.Metadata.Stats.SizeBytes = len(data)
	}
}

// PrefixedName compresses an IRI against the envelope's namespace map,
// returning e.g. "foaf:Person". The longest matching namespace wins. Returns
// false when no registered namespace prefixes the IRI.
func (c *Cache) PrefixedName(iri string) (string, bool) {
	bestPrefix, bestURI := "", ""
	for prefix, uri := range c.Namespaces {
		if strings.HasPrefix(iri, uri) && len(uri) > len(bestURI) {
			bestPrefix, bestURI = prefix, uri
		}
	}
	if bestURI == "" || len(iri) == len(bestURI) {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestURI):], true
}

// ExpandPrefixed resolves a prefixed name like "foaf:Person" back to a full
// IRI using the envelope's namespace map.
func (c *Cache) ExpandPrefixed(name string) (string, bool) {
	prefix, local, ok := strings.Cut(name, ":")
	if !ok {
		return "", false
	}
	uri, ok := c.Namespaces[prefix]
	if !ok {
		return "", false
	}
	return uri + local, true
}
