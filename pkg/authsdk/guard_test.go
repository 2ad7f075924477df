package authsdk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGuardSingleFlight(t *testing.T) {
	t.Parallel()

	var g refreshGuard

	var calls atomic.Int32
	release := make(chan struct{})
	leaderIn := make(chan struct{})

	// Leader parks inside refresh until released.
	leaderErr := make(chan error, 1)
	go func() {
		leaderErr <- g.await(context.Background(), func() error {
			calls.Add(1)
			close(leaderIn)
			<-release
			return nil
		})
	}()
	<-leaderIn

	// Five detectors arrive while the leader is in flight. None of them may
	// invoke the refresh function.
	const waiters = 5
	var wg sync.WaitGroup
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.await(context.Background(), func() error {
				calls.Add(1)
				return nil
			})
		}(i)
	}

	// Give the waiters time to park, then settle the leader.
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-leaderErr)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "waiter %d", i)
	}
	require.EqualValues(t, 1, calls.Load(), "exactly one refresh per wave")
}

func TestGuardSharesFailureAndReturnsToIdle(t *testing.T) {
	t.Parallel()

	var g refreshGuard
	boom := errors.New("refresh failed")

	var calls atomic.Int32
	release := make(chan struct{})
	leaderIn := make(chan struct{})

	leaderErr := make(chan error, 1)
	go func() {
		leaderErr <- g.await(context.Background(), func() error {
			calls.Add(1)
			close(leaderIn)
			<-release
			return boom
		})
	}()
	<-leaderIn

	waiterErr := make(chan error, 1)
	go func() {
		waiterErr <- g.await(context.Background(), func() error {
			calls.Add(1)
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	require.ErrorIs(t, <-leaderErr, boom)
	require.ErrorIs(t, <-waiterErr, boom, "waiters receive the leader's outcome")
	require.EqualValues(t, 1, calls.Load())

	// The failed wave must leave the guard reusable: the next caller starts
	// a fresh wave and runs its own refresh.
	require.NoError(t, g.await(context.Background(), func() error {
		calls.Add(1)
		return nil
	}))
	require.EqualValues(t, 2, calls.Load())
}

func TestGuardAbandonedWaiterDoesNotDeadlock(t *testing.T) {
	t.Parallel()

	var g refreshGuard

	release := make(chan struct{})
	leaderIn := make(chan struct{})

	leaderErr := make(chan error, 1)
	go func() {
		leaderErr <- g.await(context.Background(), func() error {
			close(leaderIn)
			<-release
			return nil
		})
	}()
	<-leaderIn

	// This waiter gives up before the leader settles.
	ctx, cancel := context.WithCancel(context.Background())
	waiterErr := make(chan error, 1)
	go func() {
		waiterErr <- g.await(ctx, func() error { return nil })
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-waiterErr, context.Canceled)

	// The leader's drain must not block on the abandoned waiter.
	close(release)
	select {
	case err := <-leaderErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("leader blocked draining an abandoned waiter")
	}

	// And the guard is idle again.
	require.NoError(t, g.await(context.Background(), func() error { return nil }))
}
