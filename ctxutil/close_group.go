// Copyright (c) 2023 BVK Chaitanya

package ctxutil

import (
	"context"
	"os"
	"sync"
)

// CloseGroup owns a set of goroutines that are canceled together. The zero
// value is ready to use.
type CloseGroup struct {
	once sync.Once

	closeCtx  context.Context
	causeFunc context.CancelCauseFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (cg *CloseGroup) init() {
	cg.closeCtx, cg.causeFunc = context.WithCancelCause(context.Background())
}

// Close cancels the group context with os.ErrClosed and waits for all
// goroutines to return. It is safe to call Close more than once.
func (cg *CloseGroup) Close() {
	cg.once.Do(cg.init)

	cg.mu.Lock()
	cg.closed = true
	cg.mu.Unlock()

	cg.causeFunc(os.ErrClosed)
	cg.wg.Wait()
}

func (cg *CloseGroup) Context() context.Context {
	cg.once.Do(cg.init)
	return cg.closeCtx
}

// Go runs f on a new goroutine with the group context. It returns false
// without running f if the group is already closed.
func (cg *CloseGroup) Go(f func(ctx context.Context)) bool {
	cg.once.Do(cg.init)

	cg.mu.Lock()
	defer cg.mu.Unlock()

	if cg.closed {
		return false
	}
	cg.wg.Add(1)
	go func() {
		defer cg.wg.Done()
		f(cg.closeCtx)
	}()
	return true
}
