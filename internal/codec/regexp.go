package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// literalPattern matches a regular expression literal such as /hello/i.
var literalPattern = regexp.MustCompile(`(?s)^/(.+)/([dgimsuvy]*)$`)

// Regexp is a regular expression that survives the trip into the page. It
// keeps the ECMAScript source and flags rather than a compiled form so that
// both sides of the boundary can build their own matcher.
type Regexp struct {
	Source string
	Flags  string
}

// NewRegexp returns a Regexp for an ECMAScript source and flags.
func NewRegexp(source, flags string) Regexp {
	return Regexp{Source: source, Flags: flags}
}

// ParseRegexp parses a literal of the form /source/flags.
func ParseRegexp(literal string) (Regexp, error) {
	matches := literalPattern.FindStringSubmatch(literal)
	if matches == nil {
		return Regexp{}, fmt.Errorf("%w: %q is not a regular expression literal", ErrMalformed, literal)
	}
	return Regexp{Source: matches[1], Flags: matches[2]}, nil
}

// IsRegexpLiteral reports whether s looks like /source/flags.
func IsRegexpLiteral(s string) bool {
	return literalPattern.MatchString(s)
}

// String renders r as a literal.
func (r Regexp) String() string {
	return "/" + r.Source + "/" + r.Flags
}

// MarshalJSON renders r as the proxy object recognized by [Codec.Encode].
func (r Regexp) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{regexKey: r.Source, flagsKey: r.Flags})
}

// Compile builds a matcher with ECMAScript semantics. Only the i, m, s and u
// flags change matching; the stateful g and y flags are meaningless for a
// single test and are ignored.
func (r Regexp) Compile() (*regexp2.Regexp, error) {
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	for _, flag := range r.Flags {
		switch flag {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u', 'v':
			opts |= regexp2.Unicode
		case 'g', 'y', 'd':
		default:
			return nil, fmt.Errorf("%w: unknown flag %q in %s", ErrMalformed, flag, r)
		}
	}
	re, err := regexp2.Compile(r.Source, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", r, err)
	}
	return re, nil
}

// MatchString compiles r and tests s against it.
func (r Regexp) MatchString(s string) (bool, error) {
	re, err := r.Compile()
	if err != nil {
		return false, err
	}
	return re.MatchString(s)
}

func parseTaggedRegexp(s string) (Regexp, bool) {
	literal, ok := strings.CutPrefix(s, RegexpTag)
	if !ok {
		return Regexp{}, false
	}
	re, err := ParseRegexp(literal)
	return re, err == nil
}
