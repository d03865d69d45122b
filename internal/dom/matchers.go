package dom

import (
	"maps"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/codec"
)

// MatchFunc decides whether an element matches, given the text the strategy
// extracted from it.
type MatchFunc func(content string, element *html.Node) bool

// Matchers holds matcher functions registered ahead of time so that queries
// can refer to them by ID. Each entry may carry the equivalent JavaScript
// function source for libraries running inside a page.
type Matchers struct {
	mu      sync.RWMutex
	entries map[string]matcher
}

type matcher struct {
	fn MatchFunc
	js string
}

// NewMatchers returns an empty registry.
func NewMatchers() *Matchers {
	return &Matchers{entries: make(map[string]matcher)}
}

// Register stores fn and its page-side equivalent under a fresh ID.
func (m *Matchers) Register(fn MatchFunc, js string) codec.MatcherRef {
	return m.RegisterNamed(uuid.NewString(), fn, js)
}

// RegisterNamed stores fn under a caller-chosen ID, replacing any previous
// entry.
func (m *Matchers) RegisterNamed(id string, fn MatchFunc, js string) codec.MatcherRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = matcher{fn: fn, js: js}
	return codec.MatcherRef{ID: id}
}

// Lookup returns the function registered for ref.
func (m *Matchers) Lookup(ref codec.MatcherRef) (MatchFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[ref.ID]
	if !ok || entry.fn == nil {
		return nil, false
	}
	return entry.fn, true
}

// Scripts returns the JavaScript source of every matcher that has one, keyed
// by ID.
func (m *Matchers) Scripts() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for id, entry := range m.entries {
		if entry.js != "" {
			out[id] = entry.js
		}
	}
	return out
}

// Clone copies the registry.
func (m *Matchers) Clone() *Matchers {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Matchers{entries: maps.Clone(m.entries)}
}
