package locator

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/query"
)

// Deferred is the eventual locator of a find query: either already
// resolved, or pending until awaited. Until then only find queries can be
// chained from it.
type Deferred struct {
	cfg config.Config

	group singleflight.Group

	mu      sync.Mutex
	resolve func(context.Context) (*Locator, error)
	done    bool
	loc     *Locator
	err     error
}

// canceledError carries the outcome of a resolve whose context ended. It is
// never memoized.
type canceledError struct {
	err error
}

func (e *canceledError) Error() string { return e.err.Error() }

func (e *canceledError) Unwrap() error { return e.err }

// Resolved wraps a locator that needs no waiting.
func Resolved(l *Locator) *Deferred {
	return &Deferred{cfg: l.cfg, done: true, loc: l}
}

// Pending defers fn until the first Await. Queries chained from the result
// use cfg.
func Pending(fn func(context.Context) (*Locator, error), cfg config.Config) *Deferred {
	return &Deferred{cfg: cfg, resolve: fn}
}

// Config returns the configuration chained queries inherit.
func (d *Deferred) Config() config.Config { return d.cfg }

// Await resolves the locator. Concurrent callers share one resolve and each
// stops waiting when its own context ends. The outcome is kept for later
// calls unless the resolve was cut short by its caller's context, in which
// case the next call runs the query again.
func (d *Deferred) Await(ctx context.Context) (*Locator, error) {
	for {
		if loc, ok, err := d.outcome(); ok {
			return loc, err
		}
		ch := d.group.DoChan("resolve", func() (any, error) {
			return d.run(ctx)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			var canceled *canceledError
			if !errors.As(res.Err, &canceled) {
				loc, _ := res.Val.(*Locator)
				return loc, res.Err
			}
			if ctx.Err() != nil {
				return nil, canceled.err
			}
			// another caller's context ended; try again under ours
		}
	}
}

func (d *Deferred) outcome() (*Locator, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loc, d.done, d.err
}

func (d *Deferred) run(ctx context.Context) (*Locator, error) {
	d.mu.Lock()
	if d.done {
		defer d.mu.Unlock()
		return d.loc, d.err
	}
	resolve := d.resolve
	d.mu.Unlock()

	loc, err := resolve(ctx)
	if err != nil && ctx.Err() != nil {
		return nil, &canceledError{err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loc, d.err, d.done, d.resolve = loc, err, true, nil
	return loc, err
}

// Within binds the find queries to the eventual locator. Nothing is
// evaluated until a chained query is awaited, and the chain resolves from
// its root outwards.
func (d *Deferred) Within() *FindQueries {
	return &FindQueries{root: d, cfg: d.cfg}
}

// FindQueries is the find query set bound to a [Deferred] root.
type FindQueries struct {
	root *Deferred
	cfg  config.Config
}

// Config returns the configuration queries are issued with.
func (f *FindQueries) Config() config.Config { return f.cfg }

// Find starts a find query scoped to the root's eventual locator.
func (f *FindQueries) Find(name query.Name, args ...any) *Deferred {
	root, cfg := f.root, f.cfg
	return Pending(func(ctx context.Context) (*Locator, error) {
		scope, err := root.Await(ctx)
		if err != nil {
			return nil, err
		}
		return find(ctx, scope.Locator, cfg, cfg.Codec(), name, args)
	}, cfg)
}
