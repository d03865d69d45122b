package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/query"
)

// namePlaceholder is the label the query library leaves in messages raised
// outside a named query.
const namePlaceholder = "[fnName]"

// QueryError is a query library failure labelled with the query that raised
// it.
type QueryError struct {
	Query query.Name
	Err   error
}

// Error satisfies [error].
func (e *QueryError) Error() string {
	return PatchMessage(e.Query, e.Err.Error())
}

// Unwrap returns the library error.
func (e *QueryError) Unwrap() error { return e.Err }

// ElementError returns the library's element error, if that is what failed.
func (e *QueryError) ElementError() (*dom.ElementError, bool) {
	var elementErr *dom.ElementError
	if errors.As(e.Err, &elementErr) {
		return elementErr, true
	}
	return nil, false
}

// PatchMessage labels msg with name. The placeholder is replaced when
// present; otherwise the label follows the error name so that
// "TestingLibraryElementError: Unable to ..." becomes
// "TestingLibraryElementError: [getByText] Unable to ...".
func PatchMessage(name query.Name, msg string) string {
	label := "[" + string(name) + "]"
	if strings.Contains(msg, label) {
		return msg
	}
	if strings.Contains(msg, namePlaceholder) {
		return strings.ReplaceAll(msg, namePlaceholder, label)
	}
	prefix := dom.ElementErrorName + ": "
	if rest, ok := strings.CutPrefix(msg, prefix); ok {
		return prefix + label + " " + rest
	}
	return label + " " + msg
}

// ContractError reports a plural query invoked through the single-result
// engine path.
type ContractError struct {
	Query query.Name
}

// Error satisfies [error].
func (e *ContractError) Error() string {
	return fmt.Sprintf("rodtl: the plural '%s' was used to create this Locator", e.Query)
}
