package locator

import (
	"context"
	"sync/atomic"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/config"
)

// Screen is a page that also answers every query. Page methods go to the
// page and query methods to the query set bound to it. Once revoked, the
// screen and every locator created from it fail with [ErrRevoked].
type Screen struct {
	browser.Page
	*Queries

	revoked *atomic.Bool
}

// NewScreen binds the query set to page.
func NewScreen(page browser.Page, cfg config.Config) *Screen {
	revoked := new(atomic.Bool)
	p := &revocablePage{Page: page, revoked: revoked}
	return &Screen{Page: p, Queries: Within(p, cfg), revoked: revoked}
}

// Revoke ends the screen's lifetime. It does not close the page.
func (s *Screen) Revoke() { s.revoked.Store(true) }

// Revoked reports whether Revoke was called.
func (s *Screen) Revoked() bool { return s.revoked.Load() }

var (
	_ browser.Page    = (*revocablePage)(nil)
	_ browser.Locator = (*revocableLocator)(nil)
)

type revocablePage struct {
	browser.Page

	revoked *atomic.Bool
}

func (p *revocablePage) check() error {
	if p.revoked.Load() {
		return ErrRevoked
	}
	return nil
}

func (p *revocablePage) Locator(sel string) browser.Locator {
	return &revocableLocator{inner: p.Page.Locator(sel), revoked: p.revoked}
}

func (p *revocablePage) Goto(ctx context.Context, url string) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.Page.Goto(ctx, url)
}

func (p *revocablePage) SetContent(ctx context.Context, markup string) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.Page.SetContent(ctx, markup)
}

func (p *revocablePage) Content(ctx context.Context) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	return p.Page.Content(ctx)
}

type revocableLocator struct {
	inner   browser.Locator
	revoked *atomic.Bool
}

func (l *revocableLocator) check() error {
	if l.revoked.Load() {
		return ErrRevoked
	}
	return nil
}

func (l *revocableLocator) wrap(inner browser.Locator) browser.Locator {
	return &revocableLocator{inner: inner, revoked: l.revoked}
}

func (l *revocableLocator) Selector() string { return l.inner.Selector() }

func (l *revocableLocator) Locator(sel string) browser.Locator { return l.wrap(l.inner.Locator(sel)) }

func (l *revocableLocator) First() browser.Locator { return l.wrap(l.inner.First()) }

func (l *revocableLocator) Nth(index int) browser.Locator { return l.wrap(l.inner.Nth(index)) }

func (l *revocableLocator) Count(ctx context.Context) (int, error) {
	if err := l.check(); err != nil {
		return 0, err
	}
	return l.inner.Count(ctx)
}

func (l *revocableLocator) All(ctx context.Context) ([]browser.Locator, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	all, err := l.inner.All(ctx)
	for i, inner := range all {
		all[i] = l.wrap(inner)
	}
	return all, err
}

func (l *revocableLocator) WaitFor(ctx context.Context, opts browser.WaitForOptions) error {
	if err := l.check(); err != nil {
		return err
	}
	return l.inner.WaitFor(ctx, opts)
}

func (l *revocableLocator) IsVisible(ctx context.Context) (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	return l.inner.IsVisible(ctx)
}

func (l *revocableLocator) TextContent(ctx context.Context) (string, error) {
	if err := l.check(); err != nil {
		return "", err
	}
	return l.inner.TextContent(ctx)
}

func (l *revocableLocator) NodeText(ctx context.Context) (string, error) {
	if err := l.check(); err != nil {
		return "", err
	}
	return l.inner.NodeText(ctx)
}

func (l *revocableLocator) InnerHTML(ctx context.Context) (string, error) {
	if err := l.check(); err != nil {
		return "", err
	}
	return l.inner.InnerHTML(ctx)
}

func (l *revocableLocator) GetAttribute(ctx context.Context, name string) (string, bool, error) {
	if err := l.check(); err != nil {
		return "", false, err
	}
	return l.inner.GetAttribute(ctx, name)
}

func (l *revocableLocator) Click(ctx context.Context) error {
	if err := l.check(); err != nil {
		return err
	}
	return l.inner.Click(ctx)
}
