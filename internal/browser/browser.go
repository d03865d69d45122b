// Package browser describes the automation framework the query builder
// drives: pages and lazy locators resolved from selector strings. The
// statichtml and rodbrowser packages implement it.
package browser

import (
	"context"
	"fmt"
	"time"
)

// State is an element state a locator can wait for.
type State string

// The states understood by [Locator.WaitFor].
const (
	StateAttached State = "attached"
	StateDetached State = "detached"
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
)

// ParseState validates s as a State.
func ParseState(s string) (State, error) {
	switch state := State(s); state {
	case StateAttached, StateDetached, StateVisible, StateHidden:
		return state, nil
	default:
		return "", fmt.Errorf("unknown element state %q", s)
	}
}

// WaitForOptions configure [Locator.WaitFor]. An empty State means
// [StateVisible]; a zero Timeout waits until the context ends.
type WaitForOptions struct {
	State   State
	Timeout time.Duration
}

// Normalized fills in the defaults.
func (o WaitForOptions) Normalized() WaitForOptions {
	if o.State == "" {
		o.State = StateVisible
	}
	return o
}

// Scope creates locators relative to itself.
type Scope interface {
	Locator(selector string) Locator
}

// Locator is a lazy reference to the elements matching a selector. Creating
// one never touches the page; every method taking a context does. Methods
// acting on a single element are strict: they fail when more than one
// element matches.
type Locator interface {
	Scope

	// Selector returns the full selector, including that of any parent.
	Selector() string
	// First narrows the locator to the first match.
	First() Locator
	// Nth narrows the locator to the index-th match.
	Nth(index int) Locator

	// Count returns the number of matches without waiting.
	Count(ctx context.Context) (int, error)
	// All returns one locator per current match.
	All(ctx context.Context) ([]Locator, error)
	// WaitFor waits until the single match reaches a state.
	WaitFor(ctx context.Context, opts WaitForOptions) error
	// IsVisible reports whether the single match is visible, without
	// waiting. No match is not visible.
	IsVisible(ctx context.Context) (bool, error)
	// TextContent returns the text of the element and its descendants.
	TextContent(ctx context.Context) (string, error)
	// NodeText returns the text of the element's own text nodes.
	NodeText(ctx context.Context) (string, error)
	// InnerHTML returns the markup of the element's children.
	InnerHTML(ctx context.Context) (string, error)
	// GetAttribute returns an attribute and whether it is present.
	GetAttribute(ctx context.Context, name string) (string, bool, error)
	// Click waits for the element to be visible and enabled, then clicks it.
	Click(ctx context.Context) error
}

// Page is a browser tab.
type Page interface {
	Scope

	// Goto navigates to url.
	Goto(ctx context.Context, url string) error
	// SetContent replaces the document with markup.
	SetContent(ctx context.Context, markup string) error
	// Content returns the serialized document.
	Content(ctx context.Context) (string, error)
	// URL returns the current address.
	URL() string
	// Close releases the page. Further operations fail.
	Close() error
}
