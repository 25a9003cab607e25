package cache

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sparqldesk/sparqldesk/ontology"
)

// Field names the element field a search query matched.
type Field string

const (
	FieldIRI         Field = "iri"
	FieldLabel       Field = "label"
	FieldDescription Field = "description"
	FieldLocalName   Field = "localName"
)

// DefaultSearchLimit caps results when Options.Limit is unset.
const DefaultSearchLimit = 50

// Options controls a cache search.
type Options struct {
	// Query is the free text to match. An empty query matches everything.
	Query string
	// Kinds filters to the given element kinds. Empty means all three.
	Kinds []ontology.Kind
	// Limit truncates the ranked result list. Zero means DefaultSearchLimit.
	Limit int
	// CaseSensitive disables case folding of query and fields.
	CaseSensitive bool
	// PrefixOnly requires fields to start with the query instead of merely
	// containing it.
	PrefixOnly bool
}

// Result is one ranked search hit.
type Result struct {
	Item         ontology.Item
	Score        int
	MatchedField Field
}

// Field bases are spaced so field priority always dominates: any IRI match
// outranks any label match, and so on down to local name. Within one field
// the exact/prefix bonuses and the length penalty stay inside the gap.
const (
	baseIRI         = 4000
	baseLabel       = 3000
	baseDescription = 2000
	baseLocalName   = 1000

	bonusExact  = 500
	bonusPrefix = 250
	maxPenalty  = 200
)

// Search ranks the backend's cached elements against a free-text query.
// Fields are tested in priority order (IRI, label, description, local name);
// the first match determines the field and score. Results are truncated to
// the limit only after global ranking. Storage failures and missing caches
// degrade to an empty result set: autocomplete is best effort.
func (s *Service) Search(ctx context.Context, backendID string, opts Options) []Result {
	idx, err := s.index(ctx, backendID)
	if err != nil {
		s.logger.Warn("search unavailable",
			slog.String("backend", backendID),
			slog.String("error", err.Error()))
		return nil
	}
	serviceMetrics.search()

	query := opts.Query
	if !opts.CaseSensitive {
		query = strings.ToLower(query)
	}
	kinds := kindFilter(opts.Kinds)

	var results []Result
	for _, item := range idx.items {
		if kinds != nil {
			if _, ok := kinds[item.Kind()]; !ok {
				continue
			}
		}
		if score, field, ok := matchElement(item.Base(), query, opts); ok {
			results = append(results, Result{Item: item, Score: score, MatchedField: field})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Item.Base().IRI < results[j].Item.Base().IRI
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// GetElementByIRI looks up one element by exact IRI. An empty kind searches
// all three kinds. Absent IRIs yield nil, not an error; so do storage
// failures, which are logged.
func (s *Service) GetElementByIRI(ctx context.Context, backendID, iri string, kind ontology.Kind) ontology.Item {
	idx, err := s.index(ctx, backendID)
	if err != nil {
		s.logger.Warn("lookup unavailable",
			slog.String("backend", backendID),
			slog.String("error", err.Error()))
		return nil
	}

	for _, item := range idx.byIRI[iri] {
		if kind == "" || item.Kind() == kind {
			return item
		}
	}
	return nil
}

// matchElement tests the query against the element's fields in priority
// order and scores the first match.
func matchElement(e *ontology.Element, query string, opts Options) (int, Field, bool) {
	fields := [...]struct {
		field Field
		value string
		base  int
	}{
		{FieldIRI, e.IRI, baseIRI},
		{FieldLabel, e.Label, baseLabel},
		{FieldDescription, e.Description, baseDescription},
		{FieldLocalName, e.LocalName, baseLocalName},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		candidate := f.value
		if !opts.CaseSensitive {
			candidate = strings.ToLower(candidate)
		}

		var matched bool
		if opts.PrefixOnly {
			matched = strings.HasPrefix(candidate, query)
		} else {
			matched = strings.Contains(candidate, query)
		}
		if !matched {
			continue
		}

		score := f.base
		switch {
		case candidate == query:
			score += bonusExact
		case strings.HasPrefix(candidate, query):
			score += bonusPrefix
		}
		penalty := len(candidate) - len(query)
		if penalty > maxPenalty {
			penalty = maxPenalty
		}
		score -= penalty

		return score, f.field, true
	}
	return 0, "", false
}

func kindFilter(kinds []ontology.Kind) map[ontology.Kind]struct{} {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[ontology.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// searchIndex is the in-memory mirror of one backend's envelope: a flat item
// list for scans plus an IRI-keyed map for exact lookup.
type searchIndex struct {
	items []ontology.Item
	byIRI map[string][]ontology.Item
}

func buildIndex(c *ontology.Cache) *searchIndex {
	items := c.Items()
	byIRI := make(map[string][]ontology.Item, len(items))
	for _, item := range items {
		iri := item.Base().IRI
		byIRI[iri] = append(byIRI[iri], item)
	}
	return &searchIndex{items: items, byIRI: byIRI}
}
