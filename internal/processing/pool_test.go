package processing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryTask(t *testing.T) {
	var failures atomic.Int32
	pool := NewPool(3, 10, func(error) { failures.Add(1) })
	ctx := context.Background()
	pool.Run(ctx)

	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		fail := i%5 == 0
		require.NoError(t, pool.Submit(ctx, func(context.Context) error {
			ran.Add(1)
			if fail {
				return errors.New("boom")
			}
			return nil
		}))
	}
	pool.Close()
	pool.Wait()

	assert.EqualValues(t, 20, ran.Load())
	assert.EqualValues(t, 4, failures.Load())
}

func TestPoolSubmitAfterClose(t *testing.T) {
	pool := NewPool(0, -1, nil)
	pool.Close()
	pool.Close()
	assert.ErrorIs(t, pool.Submit(context.Background(), func(context.Context) error { return nil }), ErrPoolClosed)
}

func TestPoolSubmitHonorsContext(t *testing.T) {
	pool := NewPool(1, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pool.Submit(ctx, func(context.Context) error { return nil }), context.Canceled)
}
