// Package query names the query library's operations and handles conversions
// between query names and selector prefixes.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// ErrInvalidName is returned for strings that are not query names.
	ErrInvalidName = Error("invalid query name")
	// ErrNotFind is returned when a find conversion is applied to a
	// synchronous query name.
	ErrNotFind = Error("not a find query")
)

// Error is an error type for query name conversion failures.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Prefix is the cardinality and sync/async half of a query name.
type Prefix string

// The query prefixes, longest first so that parsing is unambiguous.
const (
	PrefixGetAll   Prefix = "getAll"
	PrefixQueryAll Prefix = "queryAll"
	PrefixFindAll  Prefix = "findAll"
	PrefixGet      Prefix = "get"
	PrefixQuery    Prefix = "query"
	PrefixFind     Prefix = "find"
)

// Prefixes lists every prefix in parse order.
var Prefixes = []Prefix{
	PrefixGetAll,
	PrefixQueryAll,
	PrefixFindAll,
	PrefixGet,
	PrefixQuery,
	PrefixFind,
}

// Strategy is the matching half of a query name.
type Strategy string

// The matching strategies.
const (
	ByPlaceholderText Strategy = "PlaceholderText"
	ByText            Strategy = "Text"
	ByLabelText       Strategy = "LabelText"
	ByAltText         Strategy = "AltText"
	ByTestID          Strategy = "TestId"
	ByTitle           Strategy = "Title"
	ByRole            Strategy = "Role"
	ByDisplayValue    Strategy = "DisplayValue"
)

// Strategies lists every strategy in the order the query library documents
// them.
var Strategies = []Strategy{
	ByPlaceholderText,
	ByText,
	ByLabelText,
	ByAltText,
	ByTestID,
	ByTitle,
	ByRole,
	ByDisplayValue,
}

const by = "By"

var (
	namePattern  = regexp.MustCompile(`^(getAll|queryAll|findAll|get|query|find)By([A-Z][A-Za-z]*)$`)
	kebabPattern = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Name identifies one query operation, e.g. getByText or findAllByRole.
type Name string

// Compose joins a prefix and a strategy into a Name.
func Compose(prefix Prefix, strategy Strategy) Name {
	return Name(string(prefix) + by + string(strategy))
}

// Parse validates s as a query name.
func Parse(s string) (Name, error) {
	if !namePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return Name(s), nil
}

// Split returns the prefix and strategy of n.
func (n Name) Split() (Prefix, Strategy, error) {
	matches := namePattern.FindStringSubmatch(string(n))
	if len(matches) == 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, string(n))
	}
	return Prefix(matches[1]), Strategy(matches[2]), nil
}

// Prefix returns the prefix of n, or an empty string if n is malformed.
func (n Name) Prefix() Prefix {
	prefix, _, _ := n.Split()
	return prefix
}

// Strategy returns the strategy of n, or an empty string if n is malformed.
func (n Name) Strategy() Strategy {
	_, strategy, _ := n.Split()
	return strategy
}

// IsAll reports whether n returns every match.
func (n Name) IsAll() bool {
	return strings.Contains(string(n), "All")
}

// IsFind reports whether n is an asynchronous find query.
func (n Name) IsFind() bool {
	return strings.HasPrefix(string(n), string(PrefixFind))
}

// IsSynchronous reports whether n can be built into a locator without
// waiting.
func (n Name) IsSynchronous() bool {
	return !n.IsFind()
}

// FindToGet converts a find query into its throwing get form, preserving
// cardinality.
func (n Name) FindToGet() (Name, error) {
	return n.swapFind(string(PrefixGet))
}

// FindToQuery converts a find query into its non-throwing query form,
// preserving cardinality.
func (n Name) FindToQuery() (Name, error) {
	return n.swapFind(string(PrefixQuery))
}

// Plural returns the queryAll form of n's strategy.
func (n Name) Plural() (Name, error) {
	_, strategy, err := n.Split()
	if err != nil {
		return "", err
	}
	return Compose(PrefixQueryAll, strategy), nil
}

// SelectorPrefix converts n into the kebab-case engine name used on the left
// of a selector, e.g. getByTestId becomes get-by-test-id.
func (n Name) SelectorPrefix() string {
	return strings.ToLower(kebabPattern.ReplaceAllString(string(n), "$1-$2"))
}

func (n Name) String() string { return string(n) }

func (n Name) swapFind(to string) (Name, error) {
	if !n.IsFind() {
		return "", fmt.Errorf("%w: %q", ErrNotFind, string(n))
	}
	return Name(to + strings.TrimPrefix(string(n), string(PrefixFind))), nil
}
