// Package statichtml implements the browser capability in process, over
// parsed HTML documents. Selector engines run in Go against the document
// tree, so the locator protocol can be exercised without launching a browser.
// There is no script execution or layout: visibility is derived from markup.
package statichtml

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/dom/goquerydom"
	"github.com/stolasapp/rodtl/internal/engine"
	"github.com/stolasapp/rodtl/internal/query"
)

// LibraryFunc builds the query library for a configuration.
type LibraryFunc func(cfg config.Config, matchers *dom.Matchers) (dom.Library, error)

// GoqueryLibrary is the default LibraryFunc.
func GoqueryLibrary(cfg config.Config, matchers *dom.Matchers) (dom.Library, error) {
	return goquerydom.New(
		goquerydom.WithTestIDAttribute(cfg.TestIDAttribute),
		goquerydom.WithMatchers(matchers),
	)
}

// Browser owns the selector engines and the installed query library shared
// by its pages.
type Browser struct {
	fs            afero.Fs
	fetcher       *Fetcher
	logger        *slog.Logger
	actionTimeout time.Duration
	matchers      *dom.Matchers
	newLibrary    LibraryFunc

	runtime runtime

	mu      sync.RWMutex
	engines map[string]engine.SelectorEngine
	pages   map[string]*Page
}

// Option configures a [Browser].
type Option func(*Browser)

// WithFs reads local documents from fs.
func WithFs(fs afero.Fs) Option {
	return func(b *Browser) { b.fs = fs }
}

// WithFetcher fetches remote documents with f.
func WithFetcher(f *Fetcher) Option {
	return func(b *Browser) { b.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Browser) { b.logger = logger }
}

// WithActionTimeout bounds the implicit wait of element actions.
func WithActionTimeout(timeout time.Duration) Option {
	return func(b *Browser) { b.actionTimeout = timeout }
}

// WithMatchers shares a matcher registry with the browser.
func WithMatchers(m *dom.Matchers) Option {
	return func(b *Browser) { b.matchers = m }
}

// WithLibrary replaces the query library.
func WithLibrary(fn LibraryFunc) Option {
	return func(b *Browser) { b.newLibrary = fn }
}

// New returns a Browser with the default configuration installed.
func New(opts ...Option) (*Browser, error) {
	b := &Browser{
		fs:            afero.NewOsFs(),
		logger:        slog.New(slog.DiscardHandler),
		actionTimeout: config.DefaultActionTimeout,
		matchers:      dom.NewMatchers(),
		newLibrary:    GoqueryLibrary,
		engines:       make(map[string]engine.SelectorEngine),
		pages:         make(map[string]*Page),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.fetcher == nil {
		b.fetcher = NewFetcher()
	}
	b.logger = b.logger.With(slog.String("component", "statichtml"))
	if err := b.Install(context.Background(), config.Default()); err != nil {
		return nil, err
	}
	return b, nil
}

// Matchers returns the registry matcher references resolve against.
func (b *Browser) Matchers() *dom.Matchers { return b.matchers }

// Library returns the installed query library. Calls made through it always
// reach the most recently installed one.
func (b *Browser) Library() dom.Library { return &b.runtime }

// Config returns the installed configuration.
func (b *Browser) Config() config.Config { return b.runtime.load().cfg }

// RegisterEngine makes engine available to selectors as `name=body`. Names
// can be registered only once.
func (b *Browser) RegisterEngine(name string, e engine.SelectorEngine) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.engines[name]; dup {
		return fmt.Errorf("%q selector engine has been already registered", name)
	}
	b.engines[name] = e
	return nil
}

func (b *Browser) engine(name string) (engine.SelectorEngine, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.engines[name]
	return e, ok
}

// RegisterSelectors registers one engine per synchronous query name plus the
// simple `By<Strategy>` engines.
func (b *Browser) RegisterSelectors(ctx context.Context, names []query.Name) error {
	if err := engine.Register(b, &b.runtime, &b.runtime, names); err != nil {
		return err
	}
	if err := engine.RegisterSimple(b, &b.runtime); err != nil {
		return err
	}
	b.logger.DebugContext(ctx, "registered selector engines", slog.Int("queries", len(names)))
	return nil
}

// Exports lists the functions the installed query library exports.
func (b *Browser) Exports(context.Context) ([]string, error) {
	return b.runtime.Exports(), nil
}

// Install builds the query library for cfg and swaps it in. Queries already
// running finish against the previous library.
func (b *Browser) Install(ctx context.Context, cfg config.Config) error {
	lib, err := b.newLibrary(cfg, b.matchers)
	if err != nil {
		return fmt.Errorf("failed to build query library: %w", err)
	}
	b.runtime.store(&installed{cfg: cfg, lib: lib, codec: cfg.Codec()})
	b.logger.DebugContext(ctx, "installed query library",
		slog.String("test_id_attribute", cfg.TestIDAttribute),
		slog.Int("serialization_depth", cfg.SerializationDepth),
	)
	return nil
}

// NewPage opens an empty page.
func (b *Browser) NewPage(context.Context) (*Page, error) {
	p := newPage(b)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages[p.id] = p
	return p, nil
}

// OpenPage satisfies the fixture backend.
func (b *Browser) OpenPage(ctx context.Context) (browser.Page, error) {
	return b.NewPage(ctx)
}

// Close closes every open page.
func (b *Browser) Close() error {
	b.mu.Lock()
	pages := b.pages
	b.pages = make(map[string]*Page)
	b.mu.Unlock()
	for _, p := range pages {
		p.close()
	}
	return nil
}

func (b *Browser) forget(p *Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pages, p.id)
}

// installed is one configuration of the query library.
type installed struct {
	cfg   config.Config
	lib   dom.Library
	codec *codec.Codec
}

// runtime forwards library calls and argument decoding to the installed
// library.
type runtime struct {
	current atomic.Pointer[installed]
}

var (
	_ dom.Library        = (*runtime)(nil)
	_ engine.Decoder     = (*runtime)(nil)
	_ engine.Snapshotter = (*runtime)(nil)
)

func (r *runtime) load() *installed { return r.current.Load() }

func (r *runtime) store(i *installed) { r.current.Store(i) }

// Snapshot returns the library and codec of one installation.
func (r *runtime) Snapshot() (dom.Library, engine.Decoder) {
	i := r.load()
	return i.lib, i.codec
}

func (r *runtime) Exports() []string { return r.load().lib.Exports() }

func (r *runtime) Call(name query.Name, root *html.Node, args []any) (any, error) {
	return r.load().lib.Call(name, root, args)
}

func (r *runtime) Decode(body string) ([]any, error) { return r.load().codec.Decode(body) }
