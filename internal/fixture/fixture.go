// Package fixture wires the query builder into Go tests. A [Worker] owns the
// browsers shared by a set of tests and registers the selector engines on
// them once; each test then opens a [Test], which carries its own page,
// configuration and [locator.Screen].
package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/locator"
	"github.com/stolasapp/rodtl/internal/query"
)

// DefaultConcurrency bounds how many backends register engines at once.
const DefaultConcurrency = 4

// Backend is a browser the fixtures drive. The statichtml and rodbrowser
// browsers implement it.
type Backend interface {
	Matchers() *dom.Matchers
	Exports(ctx context.Context) ([]string, error)
	RegisterSelectors(ctx context.Context, names []query.Name) error
	Install(ctx context.Context, cfg config.Config) error
	OpenPage(ctx context.Context) (browser.Page, error)
}

// Worker holds the state shared by every test of one worker.
type Worker struct {
	backends    []Backend
	logger      *slog.Logger
	registry    *query.Registry
	base        config.Config
	concurrency int

	once sync.Once
}

// Option configures a [Worker].
type Option func(*Worker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithRegistry sets the query names registered as selector engines. By
// default each backend registers the queries its library exports.
func WithRegistry(reg *query.Registry) Option {
	return func(w *Worker) { w.registry = reg }
}

// WithConfig sets the configuration tests start from.
func WithConfig(cfg config.Config) Option {
	return func(w *Worker) { w.base = cfg }
}

// WithConcurrency bounds concurrent engine registration.
func WithConcurrency(n int) Option {
	return func(w *Worker) { w.concurrency = n }
}

// NewWorker returns a worker over backends. The first backend is the one
// tests open pages on unless told otherwise.
func NewWorker(backends []Backend, opts ...Option) *Worker {
	w := &Worker{
		backends:    backends,
		logger:      slog.New(slog.DiscardHandler),
		base:        config.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(slog.String("component", "fixture"))
	return w
}

// Config returns the configuration tests start from.
func (w *Worker) Config() config.Config { return w.base }

// Setup registers the selector engines on every backend. Only the first
// call does any work. A backend that fails to register is logged and left
// as is: its queries fail later with an unknown engine error.
func (w *Worker) Setup(ctx context.Context) {
	w.once.Do(func() {
		grp, ctx := errgroup.WithContext(ctx)
		grp.SetLimit(max(w.concurrency, 1))
		for i, backend := range w.backends {
			grp.Go(func() error {
				names, err := w.names(ctx, backend)
				if err == nil {
					err = backend.RegisterSelectors(ctx, names)
				}
				if err != nil {
					w.logger.ErrorContext(ctx, "failed to register selector engines",
						slog.Int("backend", i),
						slog.Any("error", err),
					)
					return nil
				}
				w.logger.DebugContext(ctx, "registered selector engines",
					slog.Int("backend", i),
					slog.Int("queries", len(names)),
				)
				return nil
			})
		}
		_ = grp.Wait()
	})
}

// names returns the queries to register on backend: the worker's registry
// when set, otherwise every query the backend's library exports.
func (w *Worker) names(ctx context.Context, backend Backend) ([]query.Name, error) {
	if w.registry != nil {
		return w.registry.All(), nil
	}
	exports, err := backend.Exports(ctx)
	if err != nil {
		return nil, err
	}
	return query.NewRegistry(exports).All(), nil
}

// RegisterMatcher makes fn available to queries on every backend under the
// same ID. js is its page-side equivalent. Pages pick it up on the next
// install.
func (w *Worker) RegisterMatcher(fn dom.MatchFunc, js string) codec.MatcherRef {
	id := uuid.NewString()
	for _, backend := range w.backends {
		backend.Matchers().RegisterNamed(id, fn, js)
	}
	return codec.MatcherRef{ID: id}
}

// Open starts a test on the first backend. See [Worker.OpenOn].
func (w *Worker) Open(t testing.TB) *Test {
	t.Helper()
	if len(w.backends) == 0 {
		t.Fatal("fixture: worker has no backends")
	}
	return w.OpenOn(t, w.backends[0])
}

// OpenOn starts a test on backend: the engines are registered, the worker's
// configuration installed and a page opened. The page closes and the screen
// is revoked when the test ends.
//
// Configuration is installed backend-wide, so tests that call
// [Test.Configure] should not share a backend with parallel tests.
func (w *Worker) OpenOn(t testing.TB, backend Backend) *Test {
	t.Helper()
	ctx := t.Context()
	w.Setup(ctx)
	if err := backend.Install(ctx, w.base); err != nil {
		t.Fatalf("fixture: failed to install query configuration: %v", err)
	}
	page, err := backend.OpenPage(ctx)
	if err != nil {
		t.Fatalf("fixture: failed to open page: %v", err)
	}
	ft := &Test{
		worker:  w,
		backend: backend,
		page:    page,
		cfg:     w.base,
		screen:  locator.NewScreen(page, w.base),
	}
	t.Cleanup(ft.close)
	return ft
}

// Test is the per-test fixture.
type Test struct {
	worker  *Worker
	backend Backend
	page    browser.Page

	mu     sync.Mutex
	cfg    config.Config
	screen *locator.Screen
}

// Page returns the test's page.
func (ft *Test) Page() browser.Page { return ft.page }

// Config returns the configuration in effect.
func (ft *Test) Config() config.Config {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.cfg
}

// Screen returns the query set bound to the page.
func (ft *Test) Screen() *locator.Screen {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.screen
}

// Within binds the query set to scope with the configuration in effect.
func (ft *Test) Within(scope browser.Scope) *locator.Queries {
	return locator.Within(scope, ft.Config())
}

// Configure applies d to the configuration in effect and installs the
// result. The screen returned before is revoked and replaced: a screen keeps
// the configuration it was created with.
func (ft *Test) Configure(ctx context.Context, d config.Delta) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	cfg := ft.cfg.Apply(d)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := ft.backend.Install(ctx, cfg); err != nil {
		return fmt.Errorf("failed to install query configuration: %w", err)
	}
	ft.screen.Revoke()
	ft.cfg = cfg
	ft.screen = locator.NewScreen(ft.page, cfg)
	return nil
}

// ConfigureFunc is Configure with a delta computed from the configuration
// in effect.
func (ft *Test) ConfigureFunc(ctx context.Context, fn config.Func) error {
	return ft.Configure(ctx, fn(ft.Config()))
}

// RegisterMatcher registers a matcher on every backend of the worker and
// reinstalls the configuration so the page can resolve it.
func (ft *Test) RegisterMatcher(ctx context.Context, fn dom.MatchFunc, js string) (codec.MatcherRef, error) {
	ref := ft.worker.RegisterMatcher(fn, js)
	if err := ft.backend.Install(ctx, ft.Config()); err != nil {
		return codec.MatcherRef{}, fmt.Errorf("failed to install matcher %s: %w", ref.ID, err)
	}
	return ref, nil
}

func (ft *Test) close() {
	ft.Screen().Revoke()
	_ = ft.page.Close()
}
