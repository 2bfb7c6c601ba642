package prereq

import (
	"context"
	"sort"
	"sync"

	"github.com/marinamoger/myDegreesExtension/internal/logging"
	"github.com/marinamoger/myDegreesExtension/internal/planner"
	"github.com/marinamoger/myDegreesExtension/internal/store"
)

const catalogKey = "prereqCatalog"

// Catalog caches parsed formulas per course code. Prerequisite rules are
// assumed stable within an academic year, so entries have no TTL; they live
// until the cache is cleared. The scheduler's single-flight guard keeps
// passes from overlapping; the internal mutex extends the single-writer
// invariant to the service surface, which shares the catalog.
type Catalog struct {
	store  *store.Store
	client *Client
	log    *logging.Logger

	mu       sync.Mutex
	formulas map[string]Formula
	loaded   bool
}

func NewCatalog(st *store.Store, client *Client, log *logging.Logger) *Catalog {
	return &Catalog{
		store:  st,
		client: client,
		log:    log,
	}
}

// Load pulls the persisted catalog into memory. Idempotent; called once at
// bootstrap and implicitly by the other operations.
func (c *Catalog) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

func (c *Catalog) loadLocked() error {
	if c.loaded {
		return nil
	}
	c.formulas = make(map[string]Formula)
	c.loaded = true
	if _, err := c.store.Get(store.ScopeCache, catalogKey, &c.formulas); err != nil {
		return err
	}
	return nil
}

// Formula returns the cached formula for a course. cached is false for
// courses never fetched; callers treat those as unconstrained.
func (c *Catalog) Formula(code string) (f Formula, cached bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(); err != nil {
		return nil, false
	}
	f, cached = c.formulas[code]
	return f, cached
}

// EnsureScheduled fetches and caches formulas for every scheduled course
// that has none, batched one request per term with duplicates removed. A
// failed batch aborts only that batch: its courses stay uncached and
// evaluate as unconstrained; missing prerequisite data must never block a
// badge. The catalog is persisted only
// when at least one batch was actually fetched.
func (c *Catalog) EnsureScheduled(ctx context.Context, items []planner.ScheduledCourse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(); err != nil {
		c.log.Warn("catalog load failed, starting empty", "error", err)
	}

	byTerm := make(map[string][]string)
	seen := make(map[string]bool)
	for _, it := range items {
		if _, cached := c.formulas[it.Code]; cached || seen[it.Code] {
			continue
		}
		seen[it.Code] = true
		byTerm[it.TermCode] = append(byTerm[it.TermCode], it.Code)
	}
	if len(byTerm) == 0 {
		return
	}

	terms := make([]string, 0, len(byTerm))
	for t := range byTerm {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	fetched := false
	for _, termCode := range terms {
		result, err := c.client.FetchBatch(ctx, termCode, byTerm[termCode])
		if err != nil {
			c.log.Warn("prerequisite batch failed", "term", termCode, "courses", len(byTerm[termCode]), "error", err)
			continue
		}
		for code, f := range result {
			c.formulas[code] = f
		}
		fetched = true
	}

	if fetched {
		if err := c.store.Put(store.ScopeCache, catalogKey, c.formulas); err != nil {
			c.log.Warn("catalog persist failed", "error", err)
		}
	}
}

// Forget drops the cached formulas for the given courses.
func (c *Catalog) Forget(codes []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(); err != nil {
		return err
	}
	for _, code := range codes {
		delete(c.formulas, code)
	}
	return c.store.Put(store.ScopeCache, catalogKey, c.formulas)
}

// Clear drops the whole catalog, in memory and on disk.
func (c *Catalog) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formulas = make(map[string]Formula)
	c.loaded = true
	return c.store.Delete(store.ScopeCache, catalogKey)
}
