package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sparqldesk/sparqldesk/backend"
	"github.com/sparqldesk/sparqldesk/ontology"
	"github.com/sparqldesk/sparqldesk/sparql"
)

// Fetcher materializes a backend's ontology elements by running the
// backend's three query templates in fixed order: classes, properties,
// individuals. A fetch either produces a complete envelope or fails; it
// never yields a partial one.
type Fetcher struct {
	registry *backend.Registry
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher over the given backend registry.
func NewFetcher(registry *backend.Registry, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{registry: registry, logger: logger}
}

// Fetch runs the three queries and assembles a cache envelope. The element
// limit is checked after each kind so an oversized backend fails before all
// three round-trips. Progress events go to emit (may be nil); on failure a
// final error event is emitted before the error is returned.
func (f *Fetcher) Fetch(ctx context.Context, backendID string, force bool, emit ProgressFunc) (*ontology.Cache, error) {
	if emit == nil {
		emit = func(Progress) {}
	}
	jobID := uuid.New().String()

	fail := func(err error) (*ontology.Cache, error) {
		emit(Progress{JobID: jobID, BackendID: backendID, Status: StatusError, Message: err.Error()})
		return nil, err
	}

	b, err := f.registry.Get(backendID)
	if err != nil {
		return fail(err)
	}
	cfg := b.Config.Cache
	if !cfg.Enabled && !force {
		return fail(ErrDisabled)
	}

	emit(Progress{JobID: jobID, BackendID: backendID, Status: StatusLoading})

	classes, err := f.fetchClasses(ctx, b)
	if err != nil {
		return fail(err)
	}
	total := len(classes)
	if cfg.MaxElements > 0 && total > cfg.MaxElements {
		return fail(&LimitError{Count: total, Limit: cfg.MaxElements})
	}
	emit(Progress{JobID: jobID, BackendID: backendID, Status: StatusLoading, Kind: ontology.KindClass, Fetched: total})

	properties, err := f.fetchProperties(ctx, b)
	if err != nil {
		return fail(err)
	}
	total += len(properties)
	if cfg.MaxElements > 0 && total > cfg.MaxElements {
		return fail(&LimitError{Count: total, Limit: cfg.MaxElements})
	}
	emit(Progress{JobID: jobID, BackendID: backendID, Status: StatusLoading, Kind: ontology.KindProperty, Fetched: total})

	individuals, err := f.fetchIndividuals(ctx, b)
	if err != nil {
		return fail(err)
	}
	total += len(individuals)
	if cfg.MaxElements > 0 && total > cfg.MaxElements {
		return fail(&LimitError{Count: total, Limit: cfg.MaxElements})
	}
	emit(Progress{JobID: jobID, BackendID: backendID, Status: StatusLoading, Kind: ontology.KindIndividual, Fetched: total})

	cache := &ontology.Cache{
		Metadata: ontology.Metadata{
			BackendID:   backendID,
			LastUpdated: time.Now().UnixMilli(),
			TTL:         cfg.TTL.Milliseconds(),
			Version:     ontology.SchemaVersion,
		},
		Classes:     classes,
		Properties:  properties,
		Individuals: individuals,
	}
	cache.Namespaces = deriveNamespaces(cache)
	cache.FinalizeStats()

	emit(Progress{JobID: jobID, BackendID: backendID, Status: StatusSuccess, Fetched: total})

	f.logger.Info("ontology cache fetched",
		slog.String("backend", backendID),
		slog.Int("classes", len(classes)),
		slog.Int("properties", len(properties)),
		slog.Int("individuals", len(individuals)),
		slog.Int("namespaces", len(cache.Namespaces)))

	return cache, nil
}

func (f *Fetcher) fetchClasses(ctx context.Context, b *backend.Backend) ([]ontology.Class, error) {
	table, err := b.Executor.Execute(ctx, b.Config.Cache.Queries.Classes)
	if err != nil {
		return nil, &QueryError{Kind: ontology.KindClass, Err: err}
	}

	byIRI := make(map[string]*ontology.Class, len(table.Rows))
	order := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		iri, ok := rowIRI(row)
		if !ok {
			f.logger.Warn("skipping class row without iri binding", slog.String("backend", b.Config.ID))
			continue
		}
		if _, seen := byIRI[iri]; !seen {
			byIRI[iri] = &ontology.Class{
				Element: ontology.NewElement(iri, optBinding(row, "label"), optBinding(row, "description")),
			}
			order = append(order, iri)
		}
	}

	classes := make([]ontology.Class, 0, len(order))
	for _, iri := range order {
		classes = append(classes, *byIRI[iri])
	}
	return classes, nil
}

func (f *Fetcher) fetchProperties(ctx context.Context, b *backend.Backend) ([]ontology.Property, error) {
	table, err := b.Executor.Execute(ctx, b.Config.Cache.Queries.Properties)
	if err != nil {
		return nil, &QueryError{Kind: ontology.KindProperty, Err: err}
	}

	// Multiple rows per property IRI carry one domain/range pair each; fold
	// them into a single element with unioned arrays.
	byIRI := make(map[string]*ontology.Property, len(table.Rows))
	order := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		iri, ok := rowIRI(row)
		if !ok {
			f.logger.Warn("skipping property row without iri binding", slog.String("backend", b.Config.ID))
			continue
		}
		p, seen := byIRI[iri]
		if !seen {
			p = &ontology.Property{
				Element:      ontology.NewElement(iri, optBinding(row, "label"), optBinding(row, "description")),
				PropertyType: ontology.ParsePropertyType(optBinding(row, "propertyType")),
			}
			byIRI[iri] = p
			order = append(order, iri)
		}
		if d := optBinding(row, "domain"); d != "" {
			p.Domain = appendUnique(p.Domain, d)
		}
		if r := optBinding(row, "range"); r != "" {
			p.Range = appendUnique(p.Range, r)
		}
	}

	properties := make([]ontology.Property, 0, len(order))
	for _, iri := range order {
		properties = append(properties, *byIRI[iri])
	}
	return properties, nil
}

func (f *Fetcher) fetchIndividuals(ctx context.Context, b *backend.Backend) ([]ontology.Individual, error) {
	table, err := b.Executor.Execute(ctx, b.Config.Cache.Queries.Individuals)
	if err != nil {
		return nil, &QueryError{Kind: ontology.KindIndividual, Err: err}
	}

	byIRI := make(map[string]*ontology.Individual, len(table.Rows))
	order := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		iri, ok := rowIRI(row)
		if !ok {
			f.logger.Warn("skipping individual row without iri binding", slog.String("backend", b.Config.ID))
			continue
		}
		ind, seen := byIRI[iri]
		if !seen {
			ind = &ontology.Individual{
				Element: ontology.NewElement(iri, optBinding(row, "label"), optBinding(row, "description")),
			}
			byIRI[iri] = ind
			order = append(order, iri)
		}
		if c := optBinding(row, "class"); c != "" {
			ind.Classes = appendUnique(ind.Classes, c)
		}
	}

	individuals := make([]ontology.Individual, 0, len(order))
	for _, iri := range order {
		individuals = append(individuals, *byIRI[iri])
	}
	return individuals, nil
}

// rowIRI extracts the required iri binding. Rows without one are invalid and
// skipped by the callers.
func rowIRI(row sparql.Row) (string, bool) {
	v, ok := row["iri"]
	if !ok || v.Value == "" || !v.IsIRI() {
		return "", false
	}
	return v.Value, true
}

func optBinding(row sparql.Row, name string) string {
	return row[name].Value
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// deriveNamespaces collects the distinct namespaces of every element and
// maps the well-known ones to their canonical short prefixes. Unrecognized
// namespaces get no shorthand and are omitted.
func deriveNamespaces(c *ontology.Cache) map[string]string {
	seen := make(map[string]struct{})
	for _, item := range c.Items() {
		if ns := item.Base().Namespace; ns != "" {
			seen[ns] = struct{}{}
		}
	}

	prefixes := make(map[string]string)
	for ns := range seen {
		if prefix, ok := ontology.PrefixFor(ns); ok {
			prefixes[prefix] = ns
		}
	}
	return prefixes
}
