package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestBoundsConcurrency(t *testing.T) {
	pool := New(context.Background(), 2)

	var inFlight, maxSeen int32
	for i := 0; i < 10; i++ {
		pool.Go(func(ctx context.Context) error {
			cur := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if cur <= old || atomic.CompareAndSwapInt32(&maxSeen, old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return nil
		})
	}
	require.NoError(t, pool.Wait())
	require.LessOrEqual(t, maxSeen, int32(2))
}

func TestWaitPropagatesFirstError(t *testing.T) {
	pool := New(context.Background(), 3)
	boom := require.New(t)

	pool.Go(func(ctx context.Context) error { return errBoom })
	pool.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := pool.Wait()
	boom.ErrorIs(err, errBoom)
}
