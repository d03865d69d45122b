package goquerydom

import (
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var selectors sync.Map // string -> cascadia.Selector

func compileSelector(sel string) (cascadia.Selector, error) {
	if compiled, ok := selectors.Load(sel); ok {
		return compiled.(cascadia.Selector), nil //nolint:forcetypeassert // only selectors are stored
	}
	compiled, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid selector: %w", sel, err)
	}
	selectors.Store(sel, compiled)
	return compiled, nil
}

// querySelectorAll returns the descendants of root matching sel, excluding
// root itself, in document order.
func querySelectorAll(root *html.Node, sel string) ([]*html.Node, error) {
	compiled, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root).FindMatcher(compiled).Nodes, nil
}

// matchesSelector reports whether n itself matches sel.
func matchesSelector(n *html.Node, sel string) (bool, error) {
	compiled, err := compileSelector(sel)
	if err != nil {
		return false, err
	}
	return n.Type == html.ElementNode && compiled.Match(n), nil
}
