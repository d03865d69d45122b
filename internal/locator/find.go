package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/query"
	"github.com/stolasapp/rodtl/internal/selector"
)

// FallbackTimeout bounds the second wait a timed out find query makes on
// its get form to collect the query library's error.
const FallbackTimeout = 100 * time.Millisecond

// WaitFor overrides the wait of one find query. Zero fields fall back to the
// configuration.
type WaitFor struct {
	State   browser.State
	Timeout time.Duration
}

// find waits for the query-all form of a find query to match. When the wait
// times out, the get form is consulted so that a missing element fails with
// the query library's diagnostics rather than a bare timeout.
func find(
	ctx context.Context,
	scope browser.Scope,
	cfg config.Config,
	c *codec.Codec,
	name query.Name,
	args []any,
) (*Locator, error) {
	if !name.IsFind() {
		return nil, fmt.Errorf("%w: %q", query.ErrNotFind, name)
	}
	args, wait := splitWaitFor(args)
	opts := browser.WaitForOptions{State: wait.State, Timeout: wait.Timeout}
	if opts.State == "" {
		opts.State = cfg.AsyncUtilExpectedState
	}
	if opts.Timeout == 0 {
		opts.Timeout = cfg.AsyncUtilTimeout
	}

	queryName, err := name.Plural()
	if err != nil {
		return nil, err
	}
	sel, err := selector.Build(queryName, c, args)
	if err != nil {
		return nil, err
	}
	loc := scope.Locator(sel)

	err = loc.First().WaitFor(ctx, opts)
	if err == nil {
		return wrap(loc, cfg), nil
	}
	var timeoutErr *browser.TimeoutError
	if !errors.As(err, &timeoutErr) {
		return nil, err
	}

	getName, err := name.FindToGet()
	if err != nil {
		return nil, err
	}
	getSel, err := selector.Build(getName, c, args)
	if err != nil {
		return nil, err
	}
	get := scope.Locator(getSel).First()
	slog.DebugContext(ctx, "find query timed out, checking get form",
		slog.String("query", string(name)),
		slog.String("state", string(opts.State)),
		slog.Duration("timeout", opts.Timeout),
	)

	if opts.State == browser.StateVisible {
		visible, visErr := get.IsVisible(ctx)
		if visErr != nil {
			return nil, visErr
		}
		if !visible {
			return nil, timeoutErr
		}
	}
	if err = get.WaitFor(ctx, browser.WaitForOptions{State: opts.State, Timeout: FallbackTimeout}); err != nil {
		return nil, err
	}
	return wrap(loc, cfg), nil
}

// splitWaitFor removes a trailing WaitFor from args.
func splitWaitFor(args []any) ([]any, WaitFor) {
	if len(args) == 0 {
		return args, WaitFor{}
	}
	switch wait := args[len(args)-1].(type) {
	case WaitFor:
		return args[:len(args)-1], wait
	case *WaitFor:
		if wait == nil {
			return args[:len(args)-1], WaitFor{}
		}
		return args[:len(args)-1], *wait
	default:
		return args, WaitFor{}
	}
}
