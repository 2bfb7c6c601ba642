package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/marinamoger/myDegreesExtension/internal/logging"
	"github.com/marinamoger/myDegreesExtension/internal/store"
)

const historyKey = "historySet"

// Set is the set of courses the student has completed or is currently
// taking, as derived from the academic audit.
type Set struct {
	StudentID string          `json:"studentId"`
	SavedAt   time.Time       `json:"savedAt"`
	Courses   map[string]bool `json:"courses"`
}

func (s *Set) Has(code string) bool {
	return s != nil && s.Courses[code]
}

func (s *Set) Empty() bool {
	return s == nil || len(s.Courses) == 0
}

// Cache layers the TTL reuse rule over the persistent store. The history is
// invalidated by age, never by content change.
type Cache struct {
	store  *store.Store
	client *Client
	ttl    time.Duration
	now    func() time.Time
	log    *logging.Logger
}

func NewCache(st *store.Store, client *Client, ttl time.Duration, log *logging.Logger) *Cache {
	return &Cache{
		store:  st,
		client: client,
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

// Ensure returns the cached history set when it is present, non-empty, and
// younger than the TTL, and refetches the audit otherwise. A failed
// identity lookup or audit fetch leaves the set empty for this pass, so
// every prerequisite reads as unmet until a later tick refetches; the cache
// fails closed rather than inventing history.
func (c *Cache) Ensure(ctx context.Context) *Set {
	var cached Set
	found, err := c.store.Get(store.ScopeCache, historyKey, &cached)
	if err != nil {
		c.log.Warn("history cache read failed", "error", err)
	}
	if found && !cached.Empty() && c.now().Sub(cached.SavedAt) < c.ttl {
		return &cached
	}

	fresh, err := c.refresh(ctx)
	if err != nil {
		c.log.Warn("history refresh failed, treating history as empty", "error", err)
		return &Set{Courses: make(map[string]bool)}
	}
	return fresh
}

func (c *Cache) refresh(ctx context.Context) (*Set, error) {
	studentID, err := c.client.CurrentStudentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve student: %w", err)
	}
	doc, err := c.client.FetchAudit(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("fetch audit: %w", err)
	}

	set := &Set{
		StudentID: studentID,
		SavedAt:   c.now(),
		Courses:   make(map[string]bool),
	}
	for _, code := range WalkCourses(doc, TakenCoursePredicate) {
		set.Courses[code] = true
	}

	if err := c.store.Put(store.ScopeCache, historyKey, set); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}
	c.log.Info("history refreshed", "student", studentID, "courses", len(set.Courses))
	return set, nil
}

// Invalidate drops the cached set so the next Ensure refetches regardless
// of age.
func (c *Cache) Invalidate() error {
	return c.store.Delete(store.ScopeCache, historyKey)
}
