package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3, 0}
	results := Map(context.Background(), items, 3, func(_ context.Context, n int) (string, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return fmt.Sprintf("item-%d", n), nil
	})

	require.Len(t, results, len(items))
	for i, n := range items {
		require.NotNil(t, results[i])
		require.Equal(t, fmt.Sprintf("item-%d", n), *results[i])
	}
}

func TestMapFailuresBecomeNil(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results := Map(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		switch n {
		case 2:
			return 0, errors.New("upstream down")
		case 4:
			panic("bad item")
		}
		return n * 10, nil
	})

	require.Len(t, results, 5)
	require.Nil(t, results[1])
	require.Nil(t, results[3])
	require.Equal(t, 10, *results[0])
	require.Equal(t, 30, *results[2])
	require.Equal(t, 50, *results[4])
}

func TestMapRespectsLimit(t *testing.T) {
	for _, limit := range []int{1, 2, 4, 6} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			var (
				current atomic.Int32
				peak    atomic.Int32
			)
			items := make([]int, 25)
			Map(context.Background(), items, limit, func(_ context.Context, _ int) (struct{}, error) {
				now := current.Add(1)
				for {
					seen := peak.Load()
					if now <= seen || peak.CompareAndSwap(seen, now) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				current.Add(-1)
				return struct{}{}, nil
			})
			require.LessOrEqual(t, int(peak.Load()), limit)
			require.GreaterOrEqual(t, int(peak.Load()), 1)
		})
	}
}

func TestMapSlowItemDoesNotStarveOthers(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	var (
		mu    sync.Mutex
		order []int
	)
	release := make(chan struct{})
	results := Map(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		if n == 0 {
			<-release
		}
		mu.Lock()
		order = append(order, n)
		if len(order) == len(items)-1 {
			close(release)
		}
		mu.Unlock()
		return n, nil
	})

	require.Len(t, results, len(items))
	require.Equal(t, 0, order[len(order)-1])
	for i := range items {
		require.Equal(t, i, *results[i])
	}
}

func TestMapEmptyAndZeroLimit(t *testing.T) {
	require.Empty(t, Map(context.Background(), []int{}, 4, func(_ context.Context, n int) (int, error) { return n, nil }))

	results := Map(context.Background(), []int{1, 2}, 0, func(_ context.Context, n int) (int, error) { return n, nil }, WithPool("zero"))
	require.Equal(t, 1, *results[0])
	require.Equal(t, 2, *results[1])
}

func TestMapCancelledContextLeavesNilSlots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Map(ctx, []int{1, 2, 3}, 2, func(_ context.Context, n int) (int, error) { return n, nil })
	require.Len(t, results, 3)
	for _, r := range results {
		require.Nil(t, r)
	}
}
