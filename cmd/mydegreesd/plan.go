package main

import (
	"fmt"
	"sync"

	"github.com/marinamoger/myDegreesExtension/internal/planner"
)

// planState is the scheduler's mutable page model: the latest plan snapshot
// pushed through the API stands in for the live planner page.
type planState struct {
	mu    sync.RWMutex
	terms []planner.StaticTerm
}

func newPlanState() *planState {
	return &planState{}
}

func (p *planState) update(terms []planner.StaticTerm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terms = terms
}

func (p *planState) snapshot() []planner.StaticTerm {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]planner.StaticTerm, len(p.terms))
	copy(out, p.terms)
	return out
}

func (p *planState) Columns() []planner.Column {
	return planner.StaticPage{Terms: p.snapshot()}.Columns()
}

// badgeBoard is the service's annotator: badges live in memory and are
// served back over the API. Set and clear are idempotent.
type badgeBoard struct {
	mu     sync.RWMutex
	badges map[string]string
}

func newBadgeBoard() *badgeBoard {
	return &badgeBoard{badges: make(map[string]string)}
}

func badgeKey(item planner.ScheduledCourse) string {
	return fmt.Sprintf("%d/%s", item.TermIndex, item.Code)
}

func (b *badgeBoard) SetBadge(item planner.ScheduledCourse, tooltip string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badges[badgeKey(item)] = tooltip
}

func (b *badgeBoard) ClearBadge(item planner.ScheduledCourse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.badges, badgeKey(item))
}

func (b *badgeBoard) snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.badges))
	for k, v := range b.badges {
		out[k] = v
	}
	return out
}
