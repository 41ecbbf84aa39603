package ancestry

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestForEachIndex(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		results := make([]int, 20)
		forEachIndex(len(results), workers, func(i int) {
			results[i] = i * i
		})
		for i, v := range results {
			require.Equal(t, i*i, v, "workers=%d", workers)
		}
	}
}

func TestForEachIndexBoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32

	forEachIndex(30, 4, func(int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
	})

	require.LessOrEqual(t, peak.Load(), int32(4))
	require.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestForEachIndexEmpty(t *testing.T) {
	called := false
	forEachIndex(0, 8, func(int) { called = true })
	require.False(t, called)
}
