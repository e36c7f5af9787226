// Package query turns sparse user filter state into paged server queries
// and interprets the results. One Controller serves every record kind;
// the kind descriptor carries everything entity-specific.
package query

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/agri-dcp-console/internal/entity"
	"github.com/noah-isme/agri-dcp-console/internal/models"
)

type searchClient interface {
	Search(ctx context.Context, kind entity.Descriptor, page, pageSize int, filters map[string]any) (*models.ListResult, error)
	Delete(ctx context.Context, kind entity.Descriptor, id string) error
}

// Controller owns the list state for one entity kind: current filters,
// the 1-based display page, and the last applied page of results.
type Controller struct {
	kind   entity.Descriptor
	client searchClient
	logger *zap.Logger

	mu sync.Mutex
	// base holds filters that survive ClearFilters, i.e. the farmer scope
	// a navigation context seeded.
	base       map[string]any
	filters    map[string]any
	page       int
	items      []models.Record
	totalCount int
	// seq tags each issued fetch; a response is applied only while its
	// tag is still the newest, so a slow stale response can never
	// overwrite the state of a later query.
	seq uint64
}

// New builds a controller for one kind.
func New(kind entity.Descriptor, client searchClient, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		kind:    kind,
		client:  client,
		logger:  logger,
		base:    map[string]any{},
		filters: map[string]any{},
		page:    1,
	}
}

// NewScoped builds a controller pre-filtered to one farmer. The scope key
// behaves like any user-set filter except that ClearFilters keeps it.
func NewScoped(kind entity.Descriptor, farmerID string, client searchClient, logger *zap.Logger) *Controller {
	c := New(kind, client, logger)
	if kind.ScopeField != "" && farmerID != "" {
		c.base[kind.ScopeField] = farmerID
		c.filters[kind.ScopeField] = farmerID
	}
	return c
}

// Kind returns the descriptor this controller serves.
func (c *Controller) Kind() entity.Descriptor { return c.kind }

// BuildFilters normalises raw form values against this kind's fields and
// re-applies the scope seed.
func (c *Controller) BuildFilters(raw map[string]string) map[string]any {
	filters := BuildFilters(raw, c.kind.Filters)
	c.mu.Lock()
	for k, v := range c.base {
		filters[k] = v
	}
	c.mu.Unlock()
	return filters
}

// Search replaces the filter set, resets to the first page and reloads.
// State is fully replaced on success; rows from a previous filter set
// never linger.
func (c *Controller) Search(ctx context.Context, filters map[string]any) error {
	c.mu.Lock()
	if filters == nil {
		filters = map[string]any{}
	}
	for k, v := range c.base {
		filters[k] = v
	}
	c.filters = filters
	c.page = 1
	c.mu.Unlock()

	return c.fetch(ctx)
}

// ChangePage clamps the requested 1-based page into the valid range and
// reloads. Out-of-range input is corrected, not rejected; the applied
// page is returned.
func (c *Controller) ChangePage(ctx context.Context, requested int) (int, error) {
	c.mu.Lock()
	c.page = clampPage(requested, totalPages(c.totalCount, c.kind.PageSize))
	applied := c.page
	c.mu.Unlock()

	return applied, c.fetch(ctx)
}

// ClearFilters drops every user-set filter (the farmer scope survives)
// and reloads from the first page.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.filters = map[string]any{}
	for k, v := range c.base {
		c.filters[k] = v
	}
	c.page = 1
	c.mu.Unlock()

	return c.fetch(ctx)
}

// Delete removes one record on the server and reloads the current page so
// the list reflects the removal. There is no optimistic local mutation:
// when the reload fails the previous state stays visible and the error is
// returned for the caller to surface.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.client.Delete(ctx, c.kind, id); err != nil {
		return err
	}
	return c.fetch(ctx)
}

// Items returns the current page of records.
func (c *Controller) Items() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// TotalCount returns the number of matching records across all pages.
func (c *Controller) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCount
}

// Page returns the current 1-based display page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages derives the page count from the last known total.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalPages(c.totalCount, c.kind.PageSize)
}

// Filters returns a copy of the active filter mapping.
func (c *Controller) Filters() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// fetch issues the query for the current page and filters and applies the
// result unless a newer query was issued meanwhile.
func (c *Controller) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	ticket := c.seq
	page := c.page
	filters := make(map[string]any, len(c.filters))
	for k, v := range c.filters {
		filters[k] = v
	}
	c.mu.Unlock()

	// The wire page is zero-based; the display page is 1-based.
	result, err := c.client.Search(ctx, c.kind, page-1, c.kind.PageSize, filters)

	c.mu.Lock()
	if ticket != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarded stale list response", zap.String("kind", c.kind.Name))
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.items = result.Items
	c.totalCount = result.TotalCount

	// The total may have shrunk under us (e.g. the last row of the last
	// page was deleted); re-clamp and refetch once.
	pages := totalPages(c.totalCount, c.kind.PageSize)
	if pages > 0 && c.page > pages {
		c.page = pages
		c.mu.Unlock()
		return c.fetch(ctx)
	}
	c.mu.Unlock()
	return nil
}

// totalPages follows the ceil(totalCount/pageSize) convention with zero
// pages for an empty result.
func totalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// clampPage forces a requested 1-based page into [1, max(pages,1)].
func clampPage(requested, pages int) int {
	if pages < 1 {
		return 1
	}
	if requested < 1 {
		return 1
	}
	if requested > pages {
		return pages
	}
	return requested
}
