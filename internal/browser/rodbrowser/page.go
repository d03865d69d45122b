package rodbrowser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"

	"github.com/stolasapp/rodtl/internal/bootstrap"
	"github.com/stolasapp/rodtl/internal/browser"
)

const blankURL = "about:blank"

// runJS dispatches a locator operation to the page runner.
const runJS = `(selector, op, arg) => {
  if (!window.` + bootstrap.Global + `) throw new Error('rodtl: the selector runtime is not installed in this page');
  return window.` + bootstrap.Global + `.run(selector, op, arg);
}`

const exportsJS = `() => window.` + bootstrap.Global + `.exports()`

// Page is a Chromium tab.
type Page struct {
	browser *Browser
	id      string
	page    *rod.Page

	mu     sync.Mutex
	remove func() error
	closed bool
}

var _ browser.Page = (*Page)(nil)

// ID identifies the page within its browser.
func (p *Page) ID() string { return p.id }

// Rod returns the underlying rod page.
func (p *Page) Rod() *rod.Page { return p.page }

// Locator satisfies [browser.Scope].
func (p *Page) Locator(sel string) browser.Locator {
	return &Locator{page: p, selector: sel}
}

// URL satisfies [browser.Page].
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Goto satisfies [browser.Page].
func (p *Page) Goto(ctx context.Context, url string) error {
	if err := p.check(); err != nil {
		return err
	}
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	p.browser.logger.DebugContext(ctx, "navigated", slog.String("page", p.id), slog.String("url", url))
	return nil
}

// SetContent satisfies [browser.Page]. The document is replaced in place, so
// the runner defined by the previous document survives.
func (p *Page) SetContent(ctx context.Context, markup string) error {
	if err := p.check(); err != nil {
		return err
	}
	if err := p.page.Context(ctx).SetDocumentContent(markup); err != nil {
		return fmt.Errorf("failed to set page content: %w", err)
	}
	return nil
}

// Content satisfies [browser.Page].
func (p *Page) Content(ctx context.Context) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	markup, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return markup, nil
}

// Close satisfies [browser.Page].
func (p *Page) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.browser.forget(p)
	if err := p.page.Close(); err != nil {
		return fmt.Errorf("failed to close page: %w", err)
	}
	return nil
}

// install replaces the script evaluated on new documents and evaluates it in
// the current one.
func (p *Page) install(ctx context.Context, script string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return browser.ErrClosed
	}
	page := p.page.Context(ctx)
	if p.remove != nil {
		if err := p.remove(); err != nil {
			return fmt.Errorf("failed to remove previous bootstrap script: %w", err)
		}
		p.remove = nil
	}
	remove, err := page.EvalOnNewDocument(script)
	if err != nil {
		return fmt.Errorf("failed to install bootstrap script: %w", err)
	}
	p.remove = remove
	if _, err = page.Evaluate(rod.Eval("() => {\n" + script + "\n}")); err != nil {
		return fmt.Errorf("failed to evaluate bootstrap script: %w", err)
	}
	return nil
}

func (p *Page) check() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return browser.ErrClosed
	}
	return nil
}

// run evaluates one runner operation for sel and decodes its result into
// out. Exceptions raised by the runner come back typed.
func (p *Page) run(ctx context.Context, sel, op string, arg, out any) error {
	if err := p.check(); err != nil {
		return err
	}
	res, err := p.page.Context(ctx).Evaluate(rod.Eval(runJS, sel, op, arg))
	if err != nil {
		var evalErr *rod.EvalError
		if errors.As(err, &evalErr) && evalErr.Exception != nil {
			if typed, ok := bootstrap.ParseError(sel, evalErr.Exception.Description); ok {
				return typed
			}
		}
		return fmt.Errorf("failed to evaluate %s on locator(%q): %w", op, sel, err)
	}
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(res.Value)
	if err != nil {
		return fmt.Errorf("failed to read %s result: %w", op, err)
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", op, err)
	}
	return nil
}
