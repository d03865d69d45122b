// Package rodbrowser implements the browser capability on Chromium through
// rod. Selector engines live in the page: every page evaluates the bootstrap
// script before its own scripts, and locators evaluate window.__rodtl.run.
package rodbrowser

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"github.com/stolasapp/rodtl/internal/bootstrap"
	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/query"
)

// Browser drives one Chromium instance.
type Browser struct {
	rod           *rod.Browser
	launcher      *launcher.Launcher
	logger        *slog.Logger
	actionTimeout time.Duration
	matchers      *dom.Matchers
	library       string

	mu     sync.Mutex
	names  []query.Name
	cfg    config.Config
	script string
	pages  map[string]*Page
}

// Option configures a [Browser].
type Option func(*Browser)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Browser) { b.logger = logger }
}

// WithActionTimeout bounds the implicit wait of element actions.
func WithActionTimeout(timeout time.Duration) Option {
	return func(b *Browser) { b.actionTimeout = timeout }
}

// WithMatchers shares a matcher registry with the browser. Only matchers
// registered with a JavaScript source reach the page.
func WithMatchers(m *dom.Matchers) Option {
	return func(b *Browser) { b.matchers = m }
}

// WithLibrary embeds the query library bundle source in the bootstrap script.
// Without it, pages must load the library themselves.
func WithLibrary(source string) Option {
	return func(b *Browser) { b.library = source }
}

// New wraps a connected rod browser.
func New(r *rod.Browser, opts ...Option) *Browser {
	b := &Browser{
		rod:           r,
		logger:        slog.New(slog.DiscardHandler),
		actionTimeout: config.DefaultActionTimeout,
		matchers:      dom.NewMatchers(),
		cfg:           config.Default(),
		pages:         make(map[string]*Page),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(slog.String("component", "rodbrowser"))
	return b
}

// Launch starts a browser as configured and connects to it. The process is
// killed on [Browser.Close].
func Launch(ctx context.Context, cfg config.Browser, opts ...Option) (*Browser, error) {
	bin := cfg.Bin
	if bin == "" {
		bin, _ = launcher.LookPath()
	}
	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if bin != "" {
		l = l.Bin(bin)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	r := rod.New().ControlURL(u)
	if err = r.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser at %s: %w", u, err)
	}
	if cfg.ActionTimeout > 0 {
		opts = append(opts, WithActionTimeout(cfg.ActionTimeout))
	}
	b := New(r, opts...)
	b.launcher = l
	return b, nil
}

// Matchers returns the registry whose scripts are installed into pages.
func (b *Browser) Matchers() *dom.Matchers { return b.matchers }

// Config returns the installed configuration.
func (b *Browser) Config() config.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// RegisterSelectors defines one page engine per synchronous query name. The
// simple `By<Strategy>` engines are always defined. Names can be registered
// only once.
func (b *Browser) RegisterSelectors(ctx context.Context, names []query.Name) error {
	b.mu.Lock()
	for _, name := range names {
		if slices.Contains(b.names, name) {
			b.mu.Unlock()
			return fmt.Errorf("%q selector engine has been already registered", name.SelectorPrefix())
		}
	}
	b.names = append(b.names, names...)
	cfg := b.cfg
	b.mu.Unlock()

	b.logger.DebugContext(ctx, "registered selector engines", slog.Int("queries", len(names)))
	return b.Install(ctx, cfg)
}

// Exports lists the functions the query library exports in a fresh page.
// When the library is not embedded, pages load it themselves and nothing is
// exported yet, so the standard names stand in.
func (b *Browser) Exports(ctx context.Context) ([]string, error) {
	p, err := b.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = p.Close() }()

	res, err := p.page.Context(ctx).Evaluate(rod.Eval(exportsJS))
	if err != nil {
		return nil, fmt.Errorf("failed to read query library exports: %w", err)
	}
	var exports []string
	for _, v := range res.Value.Arr() {
		exports = append(exports, v.Str())
	}
	if len(exports) == 0 {
		b.logger.DebugContext(ctx, "query library not embedded, assuming standard exports")
		return query.StandardNames(), nil
	}
	return exports, nil
}

// Install regenerates the bootstrap script for cfg. New documents of every
// open page evaluate it first; the current documents evaluate it right away,
// so the configuration changes without a reload.
func (b *Browser) Install(ctx context.Context, cfg config.Config) error {
	b.mu.Lock()
	script, err := b.build(cfg)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.cfg, b.script = cfg, script
	pages := make([]*Page, 0, len(b.pages))
	for _, p := range b.pages {
		pages = append(pages, p)
	}
	b.mu.Unlock()

	for _, p := range pages {
		if err = p.install(ctx, script); err != nil {
			return err
		}
	}
	b.logger.DebugContext(ctx, "installed bootstrap script",
		slog.String("test_id_attribute", cfg.TestIDAttribute),
		slog.Int("pages", len(pages)),
	)
	return nil
}

// NewPage opens a blank tab with the bootstrap script installed.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	target, err := b.rod.Context(ctx).Page(proto.TargetCreateTarget{URL: blankURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	p := &Page{browser: b, id: uuid.NewString(), page: target}

	b.mu.Lock()
	if b.script == "" {
		b.script, err = b.build(b.cfg)
	}
	script := b.script
	if err == nil {
		b.pages[p.id] = p
	}
	b.mu.Unlock()
	if err != nil {
		_ = target.Close()
		return nil, err
	}

	if err = p.install(ctx, script); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// OpenPage satisfies the fixture backend.
func (b *Browser) OpenPage(ctx context.Context) (browser.Page, error) {
	return b.NewPage(ctx)
}

// Close closes the browser and, if it was launched, kills the process.
func (b *Browser) Close() error {
	b.mu.Lock()
	b.pages = make(map[string]*Page)
	b.mu.Unlock()

	err := b.rod.Close()
	if b.launcher != nil {
		b.launcher.Kill()
	}
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// build renders the bootstrap script. The caller holds b.mu.
func (b *Browser) build(cfg config.Config) (string, error) {
	return bootstrap.Build(bootstrap.Options{
		Config:   cfg,
		Names:    slices.Clone(b.names),
		Library:  b.library,
		Matchers: b.matchers.Scripts(),
	})
}

func (b *Browser) forget(p *Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pages, p.id)
}
