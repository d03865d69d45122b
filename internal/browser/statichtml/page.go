package statichtml

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/content"
)

const blankURL = "about:blank"

// Page is an in-process document.
type Page struct {
	browser *Browser
	id      string

	mu     sync.RWMutex
	doc    *html.Node
	url    string
	closed bool
}

var _ browser.Page = (*Page)(nil)

func newPage(b *Browser) *Page {
	doc, _ := html.Parse(strings.NewReader(""))
	return &Page{browser: b, id: uuid.NewString(), doc: doc, url: blankURL}
}

// ID identifies the page within its browser.
func (p *Page) ID() string { return p.id }

// Locator satisfies [browser.Scope].
func (p *Page) Locator(sel string) browser.Locator {
	return &Locator{page: p, selector: sel}
}

// URL satisfies [browser.Page].
func (p *Page) URL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.url
}

// SetContent satisfies [browser.Page].
func (p *Page) SetContent(_ context.Context, markup string) error {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to parse page content: %w", err)
	}
	return p.replace(doc, p.URL())
}

// Goto satisfies [browser.Page]. http and https URLs are fetched; file URLs
// and bare paths are read from the browser's file system. Markdown and plain
// text documents are converted to HTML.
func (p *Page) Goto(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}

	var body []byte
	contentType := ""
	switch u.Scheme {
	case "http", "https":
		body, contentType, err = p.browser.fetcher.Fetch(ctx, rawURL)
	case "file", "":
		name := u.Path
		if name == "" {
			name = rawURL
		}
		body, err = afero.ReadFile(p.browser.fs, name)
		contentType = content.TypeByPath(name)
	default:
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", rawURL, err)
	}
	if contentType == "" {
		contentType = content.TypeByPath(u.Path)
	}

	markup, err := content.ToHTML(contentType, body, p.browser.logger)
	if err != nil {
		return fmt.Errorf("failed to convert %s to HTML: %w", rawURL, err)
	}
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}
	p.browser.logger.DebugContext(ctx, "navigated",
		slog.String("page", p.id),
		slog.String("url", rawURL),
		slog.String("content_type", contentType),
	)
	return p.replace(doc, rawURL)
}

// Content satisfies [browser.Page].
func (p *Page) Content(context.Context) (string, error) {
	var out strings.Builder
	err := p.read(func(doc *html.Node) error {
		return html.Render(&out, doc)
	})
	return out.String(), err
}

// Mutate edits the document under the page's write lock, standing in for
// scripts that change the DOM while queries wait.
func (p *Page) Mutate(fn func(doc *html.Node)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return browser.ErrClosed
	}
	fn(p.doc)
	return nil
}

// Close satisfies [browser.Page].
func (p *Page) Close() error {
	p.close()
	p.browser.forget(p)
	return nil
}

func (p *Page) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *Page) replace(doc *html.Node, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return browser.ErrClosed
	}
	p.doc, p.url = doc, url
	return nil
}

// read runs fn against the document under the read lock.
func (p *Page) read(fn func(doc *html.Node) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return browser.ErrClosed
	}
	return fn(p.doc)
}
