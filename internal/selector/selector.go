// Package selector builds and parses the selector strings handed to the
// automation framework, e.g. `get-by-text=["Hello"] >> visible=true`.
package selector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/query"
)

// Engine names understood by both backends in addition to the registered
// query engines.
const (
	EngineCSS     = "css"
	EngineVisible = "visible"
	EngineNth     = "nth"
)

const (
	separator      = "="
	chainSeparator = " >> "
)

// Matches the engine name on the left of `name=body`.
var engineNamePattern = regexp.MustCompile(`^[a-zA-Z_0-9-]+$`)

// Part is one link of a chained selector.
type Part struct {
	Engine string
	Body   string
}

func (p Part) String() string {
	if p.Engine == EngineCSS {
		return p.Body
	}
	return p.Engine + separator + p.Body
}

// Build encodes a call to name with args as a selector for the engine
// registered under name's selector prefix.
func Build(name query.Name, c *codec.Codec, args []any) (string, error) {
	body, err := c.Encode(args)
	if err != nil {
		return "", fmt.Errorf("failed to build %s selector: %w", name, err)
	}
	return name.SelectorPrefix() + separator + body, nil
}

// Chain joins selectors with the `>>` combinator.
func Chain(selectors ...string) string {
	return strings.Join(selectors, chainSeparator)
}

// Visible returns the pseudo-selector filtering on visibility.
func Visible(visible bool) string {
	return fmt.Sprintf("%s%s%t", EngineVisible, separator, visible)
}

// Nth returns the pseudo-selector picking the index-th match. Negative
// indexes count from the end.
func Nth(index int) string {
	return fmt.Sprintf("%s%s%d", EngineNth, separator, index)
}

// Parse splits a chained selector into its parts. `>>` inside quoted strings
// does not split. Parts without a recognizable engine name are CSS.
func Parse(s string) ([]Part, error) {
	var (
		parts []Part
		start int
		quote byte
	)
	for index := 0; index < len(s); {
		c := s[index]
		switch {
		case c == '\\' && index+1 < len(s):
			index += 2
		case quote != 0 && c == quote:
			quote = 0
			index++
		case quote == 0 && (c == '"' || c == '\'' || c == '`'):
			quote = c
			index++
		case quote == 0 && c == '>' && index+1 < len(s) && s[index+1] == '>':
			part, err := parsePart(s[start:index])
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
			index += 2
			start = index
		default:
			index++
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c in selector %q", quote, s)
	}
	part, err := parsePart(s[start:])
	if err != nil {
		return nil, err
	}
	return append(parts, part), nil
}

func parsePart(raw string) (Part, error) {
	part := strings.TrimSpace(raw)
	if part == "" {
		return Part{}, fmt.Errorf("empty selector part in %q", raw)
	}
	if name, body, ok := strings.Cut(part, separator); ok && engineNamePattern.MatchString(strings.TrimSpace(name)) {
		return Part{Engine: strings.TrimSpace(name), Body: body}, nil
	}
	return Part{Engine: EngineCSS, Body: part}, nil
}
