package objrel

import (
	"context"
	"fmt"

	"objrel/query"
	"objrel/record"

	"github.com/samber/mo"
)

// PersistAsync persists h in the background. The future resolves to h.
func (c *Client) PersistAsync(ctx context.Context, h *record.Handle) *mo.Future[*record.Handle] {
	return mo.NewFuture(func(resolve func(*record.Handle), reject func(error)) {
		if _, err := c.Persist(ctx, h); err != nil {
			reject(err)
			return
		}
		resolve(h)
	})
}

func (c *Client) ResolveAsync(ctx context.Context, h *record.Handle) *mo.Future[*record.Handle] {
	return mo.NewFuture(func(resolve func(*record.Handle), reject func(error)) {
		if _, err := c.ResolveIfNeeded(ctx, h); err != nil {
			reject(err)
			return
		}
		resolve(h)
	})
}

func (c *Client) FindAllAsync(ctx context.Context, q query.Query) *mo.Future[[]*record.Handle] {
	return mo.NewFuture(func(resolve func([]*record.Handle), reject func(error)) {
		handles, err := c.FindAll(ctx, q)
		if err != nil {
			reject(err)
			return
		}
		resolve(handles)
	})
}

func (c *Client) FindFirstAsync(ctx context.Context, q query.Query) *mo.Future[mo.Option[*record.Handle]] {
	return mo.NewFuture(func(resolve func(mo.Option[*record.Handle]), reject func(error)) {
		first, err := c.FindFirst(ctx, q)
		if err != nil {
			reject(err)
			return
		}
		resolve(first)
	})
}

// Step is one operation of a Sequence.
type Step func(ctx context.Context) error

// Sequence runs steps in order. A step starts only after the previous one
// succeeded; the first failure stops the sequence and is returned.
func Sequence(ctx context.Context, steps ...Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := step(ctx); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}
