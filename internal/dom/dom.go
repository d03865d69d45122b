// Package dom describes the query library the selector engines delegate to,
// and the node helpers shared by the in-process implementations.
package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/query"
)

// ElementErrorName prefixes every error message raised by the query library.
const ElementErrorName = "TestingLibraryElementError"

// Library is a DOM query library: given a root and decoded arguments it
// returns the matching node, a slice of nodes or nil. Single-result get
// queries fail with an [*ElementError] when nothing or more than one node
// matches.
type Library interface {
	// Exports lists every function name the library exports. Query names are
	// adopted from it; other names are ignored.
	Exports() []string
	// Call invokes the named synchronous query.
	Call(name query.Name, root *html.Node, args []any) (any, error)
}

// ElementError is the query library's descriptive match failure.
type ElementError struct {
	Message string
}

// Error satisfies [error].
func (e *ElementError) Error() string {
	return ElementErrorName + ": " + e.Message
}

// ParseElementError recovers an ElementError from a rendered message, as
// produced by a library running in another process. It reports false if msg
// does not carry the error name.
func ParseElementError(msg string) (*ElementError, bool) {
	idx := strings.Index(msg, ElementErrorName+":")
	if idx < 0 {
		return nil, false
	}
	rest := strings.TrimPrefix(msg[idx+len(ElementErrorName)+1:], " ")
	return &ElementError{Message: rest}, true
}
