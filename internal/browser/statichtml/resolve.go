package statichtml

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/selector"
)

var cssCache sync.Map // string -> cascadia.Selector

func compileCSS(sel string) (cascadia.Selector, error) {
	if compiled, ok := cssCache.Load(sel); ok {
		return compiled.(cascadia.Selector), nil //nolint:forcetypeassert // only selectors are stored
	}
	compiled, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse selector %q: %w", sel, err)
	}
	cssCache.Store(sel, compiled)
	return compiled, nil
}

// resolve evaluates a chained selector against doc. Each part runs against
// every match of the previous one; results are deduplicated and kept in
// document order. The caller holds the page's read lock.
func (b *Browser) resolve(doc *html.Node, sel string) ([]*html.Node, error) {
	parts, err := selector.Parse(sel)
	if err != nil {
		return nil, err
	}
	current := []*html.Node{doc}
	for _, part := range parts {
		if current, err = b.apply(part, current); err != nil {
			return nil, err
		}
		if len(current) == 0 {
			break
		}
	}
	return current, nil
}

func (b *Browser) apply(part selector.Part, roots []*html.Node) ([]*html.Node, error) {
	switch part.Engine {
	case selector.EngineVisible:
		want, err := strconv.ParseBool(strings.TrimSpace(part.Body))
		if err != nil {
			return nil, fmt.Errorf("malformed visible selector %q: %w", part.Body, err)
		}
		out := roots[:0:0]
		for _, n := range roots {
			if dom.IsVisible(n) == want {
				out = append(out, n)
			}
		}
		return out, nil
	case selector.EngineNth:
		index, err := strconv.Atoi(strings.TrimSpace(part.Body))
		if err != nil {
			return nil, fmt.Errorf("malformed nth selector %q: %w", part.Body, err)
		}
		if index < 0 {
			index += len(roots)
		}
		if index < 0 || index >= len(roots) {
			return nil, nil
		}
		return []*html.Node{roots[index]}, nil
	case selector.EngineCSS:
		compiled, err := compileCSS(part.Body)
		if err != nil {
			return nil, err
		}
		var out []*html.Node
		for _, root := range roots {
			out = append(out, goquery.NewDocumentFromNode(root).FindMatcher(compiled).Nodes...)
		}
		return inDocumentOrder(out), nil
	default:
		e, ok := b.engine(part.Engine)
		if !ok {
			return nil, fmt.Errorf("unknown engine %q while parsing selector %s", part.Engine, part)
		}
		var out []*html.Node
		for _, root := range roots {
			nodes, err := e.QueryAll(root, part.Body)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return inDocumentOrder(out), nil
	}
}

// inDocumentOrder removes duplicates and sorts nodes by their position in
// the document.
func inDocumentOrder(nodes []*html.Node) []*html.Node {
	if len(nodes) < 2 {
		return nodes
	}
	seen := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		seen[n] = true
	}
	out := make([]*html.Node, 0, len(seen))
	for _, n := range dom.Elements(dom.Document(nodes[0]), true) {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out
}
