// Package codec converts query arguments to and from the JSON text carried in
// a selector. Values JSON cannot express (regular expressions, registered
// matchers and CEL predicates) travel as tagged strings.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// ErrMalformed is returned for encoded arguments that cannot be decoded.
	ErrMalformed = Error("malformed arguments")
)

// Error is an error type for codec failures.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Tags prefixing encoded values. The page-side reviver recognizes the same
// prefixes.
const (
	RegexpTag  = "__REGEXP "
	MatcherTag = "__MATCHER "
	ExprTag    = "__EXPR "
)

// DefaultMaxDepth is how deep into nested option objects special values are
// converted. Values nested deeper pass through unconverted.
const DefaultMaxDepth = 2

const (
	regexKey   = "__regex"
	flagsKey   = "__flags"
	matcherKey = "__matcher"
	exprKey    = "__expr"
)

// Codec encodes and decodes query arguments.
type Codec struct {
	maxDepth int
}

// Option configures a [Codec].
type Option func(*Codec)

// WithMaxDepth sets the traversal bound. Depth 0 is a top-level argument.
func WithMaxDepth(depth int) Option {
	return func(c *Codec) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

// New returns a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxDepth returns the traversal bound.
func (c *Codec) MaxDepth() int { return c.maxDepth }

// Encode renders args as a JSON array, replacing special values found within
// the depth bound by tagged strings.
func (c *Codec) Encode(args []any) (string, error) {
	if args == nil {
		args = []any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to marshal arguments: %w", err)
	}
	var generic []any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err = dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("failed to normalize arguments: %w", err)
	}
	for i, arg := range generic {
		generic[i] = c.replace(arg, 0)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err = enc.Encode(generic); err != nil {
		return "", fmt.Errorf("failed to marshal arguments: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses encoded args, reviving tagged strings found within the depth
// bound.
func (c *Codec) Decode(s string) ([]any, error) {
	if strings.TrimSpace(s) == "" {
		return []any{}, nil
	}
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("%w: invalid JSON %q", ErrMalformed, s)
	}
	root := gjson.Parse(s)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array, got %s", ErrMalformed, root.Type)
	}
	args := make([]any, 0)
	root.ForEach(func(_, value gjson.Result) bool {
		args = append(args, c.revive(value, 0))
		return true
	})
	return args, nil
}

func (c *Codec) replace(value any, depth int) any {
	if depth > c.maxDepth {
		return value
	}
	switch value := value.(type) {
	case map[string]any:
		if tagged, ok := proxyToTag(value); ok {
			return tagged
		}
		out := make(map[string]any, len(value))
		for key, child := range value {
			out[key] = c.replace(child, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, child := range value {
			out[i] = c.replace(child, depth+1)
		}
		return out
	default:
		return value
	}
}

func proxyToTag(obj map[string]any) (string, bool) {
	switch len(obj) {
	case 2:
		source, ok := obj[regexKey].(string)
		flags, hasFlags := obj[flagsKey].(string)
		if ok && hasFlags {
			return RegexpTag + Regexp{Source: source, Flags: flags}.String(), true
		}
	case 1:
		if id, ok := obj[matcherKey].(string); ok {
			return MatcherTag + id, true
		}
		if src, ok := obj[exprKey].(string); ok {
			return ExprTag + src, true
		}
	}
	return "", false
}

func (c *Codec) revive(value gjson.Result, depth int) any {
	switch value.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return value.Num
	case gjson.String:
		if depth > c.maxDepth {
			return value.Str
		}
		return reviveString(value.Str)
	case gjson.JSON:
		if value.IsArray() {
			out := make([]any, 0)
			value.ForEach(func(_, child gjson.Result) bool {
				out = append(out, c.revive(child, depth+1))
				return true
			})
			return out
		}
		out := make(map[string]any)
		value.ForEach(func(key, child gjson.Result) bool {
			out[key.Str] = c.revive(child, depth+1)
			return true
		})
		return out
	default:
		return value.Value()
	}
}

func reviveString(s string) any {
	if re, ok := parseTaggedRegexp(s); ok {
		return re
	}
	if id, ok := strings.CutPrefix(s, MatcherTag); ok {
		return MatcherRef{ID: id}
	}
	if src, ok := strings.CutPrefix(s, ExprTag); ok {
		return Expr{Source: src}
	}
	return s
}
