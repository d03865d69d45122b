package goquerydom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/google/cel-go/cel"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/dom"
)

// textMatcher tests normalized text against the first query argument.
type textMatcher struct {
	display  string
	exact    bool
	text     string
	re       *regexp2.Regexp
	fn       dom.MatchFunc
	prog     cel.Program
	trim     bool
	collapse bool
}

func (l *Library) newMatcher(arg any, opts options, queryName string) (*textMatcher, error) {
	m := &textMatcher{exact: opts.exact, trim: opts.trim, collapse: opts.collapse}
	switch arg := arg.(type) {
	case nil:
		//nolint:staticcheck // library wording
		return nil, fmt.Errorf(
			"It looks like undefined was passed instead of a matcher. Did you do something like %s(undefined)?",
			queryName)
	case string:
		m.text, m.display = arg, arg
	case float64:
		m.text = strconv.FormatFloat(arg, 'f', -1, 64)
		m.display = m.text
	case bool:
		m.text = strconv.FormatBool(arg)
		m.display = m.text
	case codec.Regexp:
		re, err := arg.Compile()
		if err != nil {
			return nil, err
		}
		m.re, m.display = re, arg.String()
	case codec.MatcherRef:
		fn, ok := l.matchers.Lookup(arg)
		if !ok {
			return nil, fmt.Errorf("no matcher registered with id %q", arg.ID)
		}
		m.fn, m.display = fn, "matcher("+arg.ID+")"
	case codec.Expr:
		prog, err := l.exprs.compile(arg.Source)
		if err != nil {
			return nil, err
		}
		m.prog, m.display = prog, "expr("+arg.Source+")"
	default:
		return nil, fmt.Errorf("unsupported matcher of type %T passed to %s", arg, queryName)
	}
	return m, nil
}

func (m *textMatcher) normalize(s string) string {
	if m.collapse {
		s = strings.Join(strings.Fields(s), " ")
	}
	if m.trim {
		s = strings.TrimSpace(s)
	}
	return s
}

// match mirrors the library's matches/fuzzyMatches pair: strings compare
// exactly (or as a case-insensitive substring when not exact), everything
// else is a predicate.
func (m *textMatcher) match(content string, el *html.Node) bool {
	normalized := m.normalize(content)
	switch {
	case m.re != nil:
		ok, err := m.re.MatchString(normalized)
		return err == nil && ok
	case m.fn != nil:
		return m.fn(normalized, el)
	case m.prog != nil:
		return evalExpr(m.prog, normalized, el)
	case m.exact:
		return normalized == m.text
	default:
		return m.text != "" && strings.Contains(strings.ToLower(normalized), strings.ToLower(m.text))
	}
}

// options are the decoded second argument of a query.
type options struct {
	exact    bool
	trim     bool
	collapse bool
	selector string
	ignore   string
	raw      map[string]any
}

const defaultIgnore = "script, style"

func parseOptions(args []any) (options, error) {
	opts := options{
		exact:    true,
		trim:     true,
		collapse: true,
		selector: "*",
		ignore:   defaultIgnore,
		raw:      map[string]any{},
	}
	if len(args) < 2 || args[1] == nil {
		return opts, nil
	}
	raw, ok := args[1].(map[string]any)
	if !ok {
		return opts, fmt.Errorf("expected an options object, got %T", args[1])
	}
	opts.raw = raw
	if v, ok := raw["exact"].(bool); ok {
		opts.exact = v
	}
	if v, ok := raw["trim"].(bool); ok {
		opts.trim = v
	}
	if v, ok := raw["collapseWhitespace"].(bool); ok {
		opts.collapse = v
	}
	if v, ok := raw["selector"].(string); ok && v != "" {
		opts.selector = v
	}
	switch v := raw["ignore"].(type) {
	case string:
		opts.ignore = v
	case bool:
		if !v {
			opts.ignore = ""
		}
	}
	return opts, nil
}

func (o options) bool(key string) (value, ok bool) {
	value, ok = o.raw[key].(bool)
	return value, ok
}

func (o options) int(key string) (int, bool) {
	f, ok := o.raw[key].(float64)
	return int(f), ok
}
