package logs

import (
	"context"
	"errors"
	"time"
)

// Follow prints the last opts.Limit matching lines, then keeps polling for new
// ones until ctx is cancelled. Cancellation is not an error.
func Follow(ctx context.Context, path string, opts TailOptions, onLine func(string)) error {
	wait := opts.Wait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	result, err := Tail(ctx, path, TailOptions{Offset: -1, Limit: opts.Limit, Match: opts.Match})
	if err != nil {
		return err
	}
	for {
		for _, line := range result.Lines {
			onLine(line)
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		result, err = Tail(ctx, path, TailOptions{Offset: result.Offset, Follow: true, Wait: wait, Match: opts.Match})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
