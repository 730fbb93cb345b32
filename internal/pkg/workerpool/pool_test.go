package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	p := New(3, 0)
	results := p.Run(context.Background())

	var ran atomic.Int32
	go func() {
		for i := 0; i < 10; i++ {
			p.Submit(func(context.Context) error {
				ran.Add(1)
				return nil
			})
		}
		p.Close()
	}()

	seen := map[int]bool{}
	for r := range results {
		assert.NoError(t, r.Err)
		seen[r.Index] = true
	}
	assert.Equal(t, int32(10), ran.Load())
	assert.Len(t, seen, 10)
}

func TestForEach_CollectsErrorsByIndex(t *testing.T) {
	boom := errors.New("boom")
	errs := ForEach(context.Background(), 4, 20, func(_ context.Context, i int) error {
		if i%5 == 0 {
			return boom
		}
		return nil
	})

	require.Len(t, errs, 20)
	for i, err := range errs {
		if i%5 == 0 {
			assert.ErrorIs(t, err, boom, "index %d", i)
		} else {
			assert.NoError(t, err, "index %d", i)
		}
	}
}

func TestForEach_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	ForEach(context.Background(), 2, 12, func(context.Context, int) error {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestForEach_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := ForEach(ctx, 2, 5, func(context.Context, int) error { return nil })
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestForEach_Empty(t *testing.T) {
	assert.Empty(t, ForEach(context.Background(), 4, 0, nil))
}
