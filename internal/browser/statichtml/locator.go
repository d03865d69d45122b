package statichtml

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/selector"
)

// Locator is a lazy reference to the elements of a page matching a
// selector.
type Locator struct {
	page     *Page
	selector string
}

var _ browser.Locator = (*Locator)(nil)

// Selector satisfies [browser.Locator].
func (l *Locator) Selector() string { return l.selector }

// Locator satisfies [browser.Scope].
func (l *Locator) Locator(sel string) browser.Locator {
	return l.page.Locator(selector.Chain(l.selector, sel))
}

// First satisfies [browser.Locator].
func (l *Locator) First() browser.Locator { return l.Nth(0) }

// Nth satisfies [browser.Locator].
func (l *Locator) Nth(index int) browser.Locator {
	return l.page.Locator(selector.Chain(l.selector, selector.Nth(index)))
}

// Count satisfies [browser.Locator].
func (l *Locator) Count(context.Context) (int, error) {
	count := 0
	err := l.page.read(func(doc *html.Node) error {
		nodes, err := l.page.browser.resolve(doc, l.selector)
		count = len(nodes)
		return err
	})
	return count, err
}

// All satisfies [browser.Locator].
func (l *Locator) All(ctx context.Context) ([]browser.Locator, error) {
	count, err := l.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]browser.Locator, count)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}

// WaitFor satisfies [browser.Locator]. Errors raised by selector engines end
// the wait immediately.
func (l *Locator) WaitFor(ctx context.Context, opts browser.WaitForOptions) error {
	opts = opts.Normalized()
	err := browser.Poll(ctx, opts.Timeout, func(context.Context) (bool, error) {
		done := false
		err := l.page.read(func(doc *html.Node) error {
			nodes, err := l.strict(doc)
			if err != nil {
				return err
			}
			done = reached(opts.State, nodes)
			return nil
		})
		return done, err
	})
	if errors.Is(err, browser.ErrTimeout) {
		return &browser.TimeoutError{Selector: l.selector, State: opts.State, Timeout: opts.Timeout}
	}
	return err
}

func reached(state browser.State, nodes []*html.Node) bool {
	switch state {
	case browser.StateAttached:
		return len(nodes) == 1
	case browser.StateDetached:
		return len(nodes) == 0
	case browser.StateHidden:
		return len(nodes) == 0 || !dom.IsVisible(nodes[0])
	default:
		return len(nodes) == 1 && dom.IsVisible(nodes[0])
	}
}

// IsVisible satisfies [browser.Locator].
func (l *Locator) IsVisible(context.Context) (bool, error) {
	visible := false
	err := l.page.read(func(doc *html.Node) error {
		nodes, err := l.strict(doc)
		if err == nil && len(nodes) == 1 {
			visible = dom.IsVisible(nodes[0])
		}
		return err
	})
	return visible, err
}

// TextContent satisfies [browser.Locator].
func (l *Locator) TextContent(ctx context.Context) (string, error) {
	var text string
	err := l.element(ctx, browser.StateAttached, func(n *html.Node) error {
		text = dom.TextContent(n)
		return nil
	})
	return text, err
}

// NodeText satisfies [browser.Locator].
func (l *Locator) NodeText(ctx context.Context) (string, error) {
	var text string
	err := l.element(ctx, browser.StateAttached, func(n *html.Node) error {
		text = dom.NodeText(n)
		return nil
	})
	return text, err
}

// InnerHTML satisfies [browser.Locator].
func (l *Locator) InnerHTML(ctx context.Context) (string, error) {
	var out strings.Builder
	err := l.element(ctx, browser.StateAttached, func(n *html.Node) error {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&out, c); err != nil {
				return err
			}
		}
		return nil
	})
	return out.String(), err
}

// GetAttribute satisfies [browser.Locator].
func (l *Locator) GetAttribute(ctx context.Context, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := l.element(ctx, browser.StateAttached, func(n *html.Node) error {
		value, ok = dom.Attr(n, name)
		return nil
	})
	return value, ok, err
}

// Click satisfies [browser.Locator]. The document has no scripts, so a click
// only checks that the element could be clicked.
func (l *Locator) Click(ctx context.Context) error {
	return l.element(ctx, browser.StateVisible, func(n *html.Node) error {
		if _, disabled := dom.Attr(n, "disabled"); disabled {
			return fmt.Errorf("element %s is not enabled", l.selector)
		}
		return nil
	})
}

// strict resolves the selector, failing when it matches more than one
// element.
func (l *Locator) strict(doc *html.Node) ([]*html.Node, error) {
	nodes, err := l.page.browser.resolve(doc, l.selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) > 1 {
		return nil, &browser.StrictModeError{Selector: l.selector, Count: len(nodes)}
	}
	return nodes, nil
}

// element waits for the single match to reach state, then runs fn against it
// under the page's read lock.
func (l *Locator) element(ctx context.Context, state browser.State, fn func(*html.Node) error) error {
	opts := browser.WaitForOptions{State: state, Timeout: l.page.browser.actionTimeout}
	if err := l.WaitFor(ctx, opts); err != nil {
		return err
	}
	return l.page.read(func(doc *html.Node) error {
		nodes, err := l.strict(doc)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			return fmt.Errorf("element %s is not attached to the document", l.selector)
		}
		return fn(nodes[0])
	})
}
