// Package goquerydom is an in-process implementation of the query library over
// parsed HTML. It backs the static browser so that the locator protocol can be
// exercised without a real browser.
package goquerydom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/content"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/query"
)

// DefaultTestIDAttribute is the attribute ByTestId queries read by default.
const DefaultTestIDAttribute = "data-testid"

const multipleHint = "\n\n(If this is intentional, then use the `*AllBy*` variant of the query " +
	"(like `queryAllByText`, `getAllByText`, or `findAllByText`))."

// Library satisfies [dom.Library].
type Library struct {
	testIDAttribute string
	snapshotLimit   int
	matchers        *dom.Matchers
	exprs           *exprCache
	snapshots       *content.Snapshotter
	exports         []string
}

// Option configures a [Library].
type Option func(*Library)

// WithTestIDAttribute changes the attribute ByTestId queries read.
func WithTestIDAttribute(attr string) Option {
	return func(l *Library) {
		if attr != "" {
			l.testIDAttribute = attr
		}
	}
}

// WithMatchers resolves matcher references against m.
func WithMatchers(m *dom.Matchers) Option {
	return func(l *Library) {
		if m != nil {
			l.matchers = m
		}
	}
}

// WithSnapshotLimit caps the DOM snapshot appended to errors.
func WithSnapshotLimit(limit int) Option {
	return func(l *Library) { l.snapshotLimit = limit }
}

// WithExports overrides the exported function names, for example to drop a
// query family.
func WithExports(exports ...string) Option {
	return func(l *Library) { l.exports = exports }
}

// New returns a Library.
func New(opts ...Option) (*Library, error) {
	exprs, err := newExprCache()
	if err != nil {
		return nil, err
	}
	l := &Library{
		testIDAttribute: DefaultTestIDAttribute,
		matchers:        dom.NewMatchers(),
		exprs:           exprs,
		exports:         append(query.StandardNames(), "configure", "within", "prettyDOM", "getNodeText"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.snapshots = content.NewSnapshotter(l.snapshotLimit, l.testIDAttribute)
	return l, nil
}

// TestIDAttribute returns the attribute ByTestId queries read.
func (l *Library) TestIDAttribute() string { return l.testIDAttribute }

// Exports satisfies [dom.Library].
func (l *Library) Exports() []string {
	return append([]string(nil), l.exports...)
}

// PrettyDOM renders a sanitized snapshot of n.
func (l *Library) PrettyDOM(n *html.Node) string {
	return l.snapshots.Snapshot(n)
}

// Call satisfies [dom.Library].
func (l *Library) Call(name query.Name, root *html.Node, args []any) (any, error) {
	prefix, strategy, err := name.Split()
	if err != nil {
		return nil, err
	}
	if name.IsFind() {
		return nil, fmt.Errorf("%s waits asynchronously and cannot be called directly", name)
	}
	if root == nil {
		return nil, fmt.Errorf("%s: root node is required", name)
	}
	impl, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported strategy %q", name, strategy)
	}

	found, desc, err := impl(l, root, args, string(name))
	if err != nil {
		return nil, err
	}

	switch prefix {
	case query.PrefixQueryAll:
		return found, nil
	case query.PrefixGetAll:
		if len(found) == 0 {
			return nil, l.elementError(root, desc.missing(l, root))
		}
		return found, nil
	case query.PrefixQuery, query.PrefixGet:
		switch {
		case len(found) > 1:
			return nil, l.elementError(root, desc.multiple+multipleHint)
		case len(found) == 1:
			return found[0], nil
		case prefix == query.PrefixGet:
			return nil, l.elementError(root, desc.missing(l, root))
		default:
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("%s: unsupported prefix %q", name, prefix)
	}
}

func (l *Library) elementError(root *html.Node, msg string) error {
	if snapshot := l.PrettyDOM(root); snapshot != "" {
		msg += "\n\n" + snapshot
	}
	return &dom.ElementError{Message: msg}
}

// description renders the not-found and multiple-found messages of one call.
type description struct {
	notFound string
	multiple string
	// extra refines notFound after the fact, e.g. when a label exists but
	// labels nothing.
	extra func(l *Library, root *html.Node) string
}

func (d description) missing(l *Library, root *html.Node) string {
	if d.extra != nil {
		if msg := d.extra(l, root); msg != "" {
			return msg
		}
	}
	return d.notFound
}

type strategyFunc func(l *Library, root *html.Node, args []any, queryName string) ([]*html.Node, description, error)

var strategies = map[query.Strategy]strategyFunc{
	query.ByText:            (*Library).byText,
	query.ByTestID:          (*Library).byTestID,
	query.ByTitle:           (*Library).byTitle,
	query.ByAltText:         (*Library).byAltText,
	query.ByPlaceholderText: (*Library).byPlaceholderText,
	query.ByDisplayValue:    (*Library).byDisplayValue,
	query.ByLabelText:       (*Library).byLabelText,
	query.ByRole:            (*Library).byRole,
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func filterSelector(nodes []*html.Node, sel string) ([]*html.Node, error) {
	if sel == "" || sel == "*" {
		return nodes, nil
	}
	out := nodes[:0:0]
	for _, n := range nodes {
		ok, err := matchesSelector(n, sel)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func joinNonEmpty(parts []string) string {
	out := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}
