// Copyright (c) 2023 BVK Chaitanya

package ctxutil

import (
	"context"
	"time"
)

// Sleep blocks the caller for given duration. Returns early if the input
// context is canceled.
func Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// RetryTimeout runs f every interval till it succeeds, the context is
// canceled or the timeout expires. Returns the last error from f.
func RetryTimeout(ctx context.Context, interval, timeout time.Duration, f func() error) (err error) {
	sctx, scancel := context.WithTimeout(ctx, timeout)
	defer scancel()

	for err = f(); err != nil && sctx.Err() == nil; err = f() {
		Sleep(sctx, interval)
	}
	return err
}
