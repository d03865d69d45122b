package engine

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/query"
)

// SimpleEngine is the plain-text engine registered as `By<Strategy>`. Its
// body is either literal text or a `/source/flags` regular expression, and it
// always runs the queryAll form of its strategy.
type SimpleEngine struct {
	strategy query.Strategy
	lib      dom.Library
}

var _ SelectorEngine = (*SimpleEngine)(nil)

// NewSimple returns the simple engine for strategy.
func NewSimple(strategy query.Strategy, lib dom.Library) *SimpleEngine {
	return &SimpleEngine{strategy: strategy, lib: lib}
}

// SimpleName is the engine name of the simple engine for strategy.
func SimpleName(strategy query.Strategy) string {
	return "By" + string(strategy)
}

// Query returns the first match.
func (e *SimpleEngine) Query(root *html.Node, body string) (*html.Node, error) {
	nodes, err := e.QueryAll(root, body)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// QueryAll returns every match.
func (e *SimpleEngine) QueryAll(root *html.Node, body string) ([]*html.Node, error) {
	var matcher any = body
	if re, err := codec.ParseRegexp(body); err == nil {
		matcher = re
	}
	name := query.Compose(query.PrefixQueryAll, e.strategy)
	result, err := e.lib.Call(name, root, []any{matcher})
	if err != nil {
		return nil, &QueryError{Query: name, Err: err}
	}
	nodes, ok := result.([]*html.Node)
	if !ok && result != nil {
		return nil, fmt.Errorf("%s returned unexpected %T", name, result)
	}
	if nodes == nil {
		nodes = []*html.Node{}
	}
	return nodes, nil
}

// RegisterSimple registers a simple engine for every strategy.
func RegisterSimple(reg Registrar, lib dom.Library) error {
	for _, strategy := range query.Strategies {
		if err := reg.RegisterEngine(SimpleName(strategy), NewSimple(strategy, lib)); err != nil {
			return fmt.Errorf("failed to register %s engine: %w", SimpleName(strategy), err)
		}
	}
	return nil
}
