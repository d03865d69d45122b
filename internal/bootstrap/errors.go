package bootstrap

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/engine"
	"github.com/stolasapp/rodtl/internal/query"
)

var (
	queryErrorPattern    = regexp.MustCompile(`(?s)rodtl:([A-Za-z]+):(.*)`)
	contractErrorPattern = regexp.MustCompile(`rodtl: the plural '([A-Za-z]+)' was used`)
	strictErrorPattern   = regexp.MustCompile(`rodtl:strict:(\d+)`)
	stackFramePattern    = regexp.MustCompile(`\n\s+at [^\n]*`)
)

// ParseError recovers the typed error thrown by the page runner from the
// description of a script exception. Query failures become
// [*engine.QueryError], plural misuse [*engine.ContractError] and ambiguous
// single-element operations [*browser.StrictModeError] for sel. It reports
// false for exceptions the runner did not raise.
func ParseError(sel, description string) (error, bool) {
	description = stackFramePattern.ReplaceAllString(description, "")
	if m := strictErrorPattern.FindStringSubmatch(description); m != nil {
		count, _ := strconv.Atoi(m[1])
		return &browser.StrictModeError{Selector: sel, Count: count}, true
	}
	if m := contractErrorPattern.FindStringSubmatch(description); m != nil {
		return &engine.ContractError{Query: query.Name(m[1])}, true
	}
	if m := queryErrorPattern.FindStringSubmatch(description); m != nil {
		msg := strings.TrimSpace(m[2])
		var err error = errors.New(msg)
		if elementErr, ok := dom.ParseElementError(msg); ok {
			err = elementErr
		}
		return &engine.QueryError{Query: query.Name(m[1]), Err: err}, true
	}
	return nil, false
}
