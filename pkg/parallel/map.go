// Package parallel provides the bounded fan-out helper used for batch I/O.
package parallel

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/pawpulse/pkg/metrics"
)

// Option tweaks a Map invocation.
type Option func(*options)

type options struct {
	pool string
}

// WithPool labels the in-flight gauge for this invocation.
func WithPool(name string) Option {
	return func(o *options) {
		o.pool = name
	}
}

// Map applies fn to every item with at most limit invocations in flight.
//
// The returned slice always has len(items) entries and result[i] belongs to
// items[i]. A slot is nil when fn returned an error or panicked for that item,
// or when ctx was cancelled before the item was picked up. Workers pull the
// next index from a shared cursor, so one slow item never idles the others.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error), opts ...Option) []*R {
	results := make([]*R, len(items))
	if len(items) == 0 {
		return results
	}
	cfg := options{pool: "default"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if limit < 1 {
		limit = 1
	}
	workers := min(limit, len(items))

	var (
		cursor atomic.Int64
		group  errgroup.Group
	)
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for {
				if ctx.Err() != nil {
					return nil
				}
				idx := int(cursor.Add(1) - 1)
				if idx >= len(items) {
					return nil
				}
				metrics.IncInFlight(cfg.pool)
				value, ok := invoke(ctx, items[idx], fn)
				metrics.DecInFlight(cfg.pool)
				if ok {
					results[idx] = &value
				}
			}
		})
	}
	_ = group.Wait()
	return results
}

func invoke[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (out R, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	value, err := fn(ctx, item)
	if err != nil {
		return out, false
	}
	return value, true
}
