// Package locator builds query library calls into browser locators. Every
// query name is available as a method of [Queries]: synchronous queries
// return a lazy [*Locator] straight away, find queries return a [*Deferred]
// that waits for the element when awaited.
package locator

//go:generate go run gen.go

import (
	"context"
	"fmt"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/query"
	"github.com/stolasapp/rodtl/internal/selector"
)

const (
	// ErrRevoked is returned by operations on the locators of a revoked
	// [Screen].
	ErrRevoked = Error("screen has been revoked")
)

// Error is an error type for locator sentinels.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Queries is the full query set bound to a scope: a page or a locator.
type Queries struct {
	scope browser.Scope
	cfg   config.Config
	codec *codec.Codec
}

// Within binds the query set to scope. Queries issued through it use cfg.
func Within(scope browser.Scope, cfg config.Config) *Queries {
	return &Queries{scope: scope, cfg: cfg, codec: cfg.Codec()}
}

// Config returns the configuration queries are issued with.
func (q *Queries) Config() config.Config { return q.cfg }

// Run builds a synchronous query into a locator scoped to q. Nothing is
// evaluated until the locator is used; encoding failures surface then.
func (q *Queries) Run(name query.Name, args ...any) *Locator {
	if name.IsFind() {
		err := fmt.Errorf("%s waits for its element: use Find", name)
		return wrap(browser.Failed(name.SelectorPrefix(), err), q.cfg)
	}
	sel, err := selector.Build(name, q.codec, args)
	if err != nil {
		return wrap(browser.Failed(name.SelectorPrefix(), err), q.cfg)
	}
	return wrap(q.scope.Locator(sel), q.cfg)
}

// Find starts a find query scoped to q. A trailing [WaitFor] argument
// overrides the configured state and timeout.
func (q *Queries) Find(name query.Name, args ...any) *Deferred {
	scope, cfg, c := q.scope, q.cfg, q.codec
	return Pending(func(ctx context.Context) (*Locator, error) {
		return find(ctx, scope, cfg, c, name, args)
	}, cfg)
}

// Locator is a browser locator that remembers the configuration it was
// built with, so queries chained from it inherit that configuration.
type Locator struct {
	browser.Locator

	cfg config.Config
}

func wrap(l browser.Locator, cfg config.Config) *Locator {
	return &Locator{Locator: l, cfg: cfg}
}

// Unwrap returns the browser locator.
func (l *Locator) Unwrap() browser.Locator { return l.Locator }

// Config returns the configuration the locator was built with.
func (l *Locator) Config() config.Config { return l.cfg }

// Within binds the full query set to the locator's elements.
func (l *Locator) Within() *Queries { return Within(l.Locator, l.cfg) }

// First narrows the locator to its first match.
func (l *Locator) First() *Locator { return wrap(l.Locator.First(), l.cfg) }

// Nth narrows the locator to its index-th match.
func (l *Locator) Nth(index int) *Locator { return wrap(l.Locator.Nth(index), l.cfg) }
