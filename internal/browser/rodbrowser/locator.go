package rodbrowser

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/stolasapp/rodtl/internal/bootstrap"
	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/selector"
)

// Runner operations.
const (
	opProbe    = "probe"
	opText     = "text"
	opNodeText = "nodeText"
	opHTML     = "html"
	opAttr     = "attr"
	opVisible  = "visible"
)

// elementJS returns the single match of a selector, or null.
const elementJS = `(selector) => {
  const elements = window.` + bootstrap.Global + `.resolve(selector);
  return elements.length === 1 ? elements[0] : null;
}`

// Locator is a lazy reference to the elements of a tab matching a selector.
type Locator struct {
	page     *Page
	selector string
}

var _ browser.Locator = (*Locator)(nil)

type result[T any] struct {
	Found bool `json:"found"`
	Value T    `json:"value"`
}

type attribute struct {
	Value string `json:"value"`
	Has   bool   `json:"has"`
}

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
func (l *Locator) Count(ctx context.Context) (int, error) {
	visible, err := l.probe(ctx)
	return len(visible), err
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
	err := browser.Poll(ctx, opts.Timeout, func(ctx context.Context) (bool, error) {
		visible, err := l.probe(ctx)
		if err != nil {
			return false, err
		}
		if len(visible) > 1 {
			return false, &browser.StrictModeError{Selector: l.selector, Count: len(visible)}
		}
		return reached(opts.State, visible), nil
	})
	if errors.Is(err, browser.ErrTimeout) {
		return &browser.TimeoutError{Selector: l.selector, State: opts.State, Timeout: opts.Timeout}
	}
	return err
}

func reached(state browser.State, visible []bool) bool {
	switch state {
	case browser.StateAttached:
		return len(visible) == 1
	case browser.StateDetached:
		return len(visible) == 0
	case browser.StateHidden:
		return len(visible) == 0 || !visible[0]
	default:
		return len(visible) == 1 && visible[0]
	}
}

// IsVisible satisfies [browser.Locator].
func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	var res result[bool]
	if err := l.page.run(ctx, l.selector, opVisible, nil, &res); err != nil {
		return false, err
	}
	return res.Found && res.Value, nil
}

// TextContent satisfies [browser.Locator].
func (l *Locator) TextContent(ctx context.Context) (string, error) {
	var res result[string]
	err := l.element(ctx, opText, nil, &res)
	return res.Value, err
}

// NodeText satisfies [browser.Locator].
func (l *Locator) NodeText(ctx context.Context) (string, error) {
	var res result[string]
	err := l.element(ctx, opNodeText, nil, &res)
	return res.Value, err
}

// InnerHTML satisfies [browser.Locator].
func (l *Locator) InnerHTML(ctx context.Context) (string, error) {
	var res result[string]
	err := l.element(ctx, opHTML, nil, &res)
	return res.Value, err
}

// GetAttribute satisfies [browser.Locator].
func (l *Locator) GetAttribute(ctx context.Context, name string) (string, bool, error) {
	var res result[attribute]
	err := l.element(ctx, opAttr, name, &res)
	return res.Value.Value, res.Value.Has, err
}

// Click satisfies [browser.Locator]. The click is dispatched as mouse input
// at the element's position.
func (l *Locator) Click(ctx context.Context) error {
	opts := browser.WaitForOptions{State: browser.StateVisible, Timeout: l.page.browser.actionTimeout}
	if err := l.WaitFor(ctx, opts); err != nil {
		return err
	}
	page := l.page.page.Context(ctx).Sleeper(rod.NotFoundSleeper)
	el, err := page.ElementByJS(rod.Eval(elementJS, l.selector))
	if err != nil {
		return fmt.Errorf("failed to resolve locator(%q): %w", l.selector, err)
	}
	disabled, err := el.Disabled()
	if err != nil {
		return fmt.Errorf("failed to read locator(%q) state: %w", l.selector, err)
	}
	if disabled {
		return fmt.Errorf("element %s is not enabled", l.selector)
	}
	if err = el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click locator(%q): %w", l.selector, err)
	}
	return nil
}

func (l *Locator) probe(ctx context.Context) ([]bool, error) {
	var visible []bool
	err := l.page.run(ctx, l.selector, opProbe, nil, &visible)
	return visible, err
}

// element waits for the single match to be attached, then runs op on it.
func (l *Locator) element(ctx context.Context, op string, arg any, out interface{ found() bool }) error {
	opts := browser.WaitForOptions{State: browser.StateAttached, Timeout: l.page.browser.actionTimeout}
	if err := l.WaitFor(ctx, opts); err != nil {
		return err
	}
	if err := l.page.run(ctx, l.selector, op, arg, out); err != nil {
		return err
	}
	if !out.found() {
		return fmt.Errorf("element %s is not attached to the document", l.selector)
	}
	return nil
}

func (r *result[T]) found() bool { return r.Found }
