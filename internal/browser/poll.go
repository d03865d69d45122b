package browser

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/rod/lib/utils"
)

// PollIntervals are the delays between successive checks of [Poll]; the last
// one repeats.
var PollIntervals = []time.Duration{
	0,
	20 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
}

// Poll calls check until it reports done or fails. It returns [ErrTimeout]
// once timeout elapses, or the context's error if ctx ends first. A zero
// timeout polls until ctx ends.
func Poll(ctx context.Context, timeout time.Duration, check func(ctx context.Context) (bool, error)) error {
	parent := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if ctx.Err() != nil {
		return pollErr(parent, ctx)
	}

	err := utils.Retry(ctx, intervalSleeper(), func() (bool, error) {
		done, err := check(ctx)
		return done || err != nil, err
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return pollErr(parent, ctx)
	}
	return err
}

// intervalSleeper waits out [PollIntervals] one after another, starting
// after the first check.
func intervalSleeper() utils.Sleeper {
	attempt := 0
	return func(ctx context.Context) error {
		attempt++
		delay := PollIntervals[min(attempt, len(PollIntervals)-1)]
		if delay <= 0 {
			return ctx.Err()
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

func pollErr(parent, ctx context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ctx.Err()
}
