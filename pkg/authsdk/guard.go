package authsdk

import (
	"context"
	"sync"
)

// refreshGuard coordinates session refresh across goroutines. The first
// detector of a refresh-eligible failure becomes the leader and performs
// the one network refresh; everyone else parks on a waiter channel and
// receives the leader's outcome. One refresh per wave, no matter how many
// requests detected the expiry simultaneously.
type refreshGuard struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan error
}

// await runs refresh once per wave and returns its outcome. If a refresh is
// already in flight the call blocks, without touching the network, until the
// leader settles.
//
// Waiter channels are buffered so a waiter that gives up on its context can
// walk away without blocking the leader's drain; the guard always returns to
// idle.
func (g *refreshGuard) await(ctx context.Context, refresh func() error) error {
	g.mu.Lock()
	if g.inFlight {
		ch := make(chan error, 1)
		g.waiters = append(g.waiters, ch)
		g.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.inFlight = true
	g.mu.Unlock()

	err := refresh()

	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.inFlight = false
	g.mu.Unlock()

	// Buffered sends: an abandoned waiter never stalls the drain.
	for _, ch := range waiters {
		ch <- err
	}

	return err
}
