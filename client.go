// Package objrel persists, resolves and queries record handles against a
// store.Store.
//
// Every operation has a blocking form taking a context and an Async form
// returning a future. Dependent operations must be sequenced by the caller,
// either by chaining futures with Then or with Sequence. A handle passed to
// an operation must not be used until that operation completes.
package objrel

import (
	"context"
	"fmt"
	"log/slog"

	"objrel/objid"
	"objrel/query"
	"objrel/record"
	"objrel/store"

	"github.com/samber/mo"
)

type Client struct {
	backend  store.Store
	logger   *slog.Logger
	registry *record.Registry
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRegistry sets the registry used by Materialize.
func WithRegistry(registry *record.Registry) Option {
	return func(c *Client) {
		c.registry = registry
	}
}

func NewClient(backend store.Store, opts ...Option) *Client {
	c := &Client{
		backend:  backend,
		logger:   slog.Default(),
		registry: record.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Registry() *record.Registry {
	return c.registry
}

// Persist saves the handle's fields and pending relation edits. On success
// the handle is resolved under the returned id, on failure it is left as
// it was. Stubs cannot be persisted: their fields are unknown.
func (c *Client) Persist(ctx context.Context, h *record.Handle) (objid.ID, error) {
	if h.State() == record.StateStub {
		return "", fmt.Errorf("persist %s: resolve it first: %w", h, store.ErrPrecondition)
	}

	fields, edits := h.Changes()
	id, err := c.backend.Save(ctx, h.ClassName(), h.ID(), fields, edits)
	if err != nil {
		return "", fmt.Errorf("persist %s: %w", h, err)
	}

	h.Commit(id)
	c.logger.DebugContext(ctx, "persisted", "class", h.ClassName(), "id", id, "edits", len(edits))
	return id, nil
}

// ResolveIfNeeded fetches a stub's fields. A resolved handle is returned
// as is without contacting the store.
func (c *Client) ResolveIfNeeded(ctx context.Context, h *record.Handle) (*record.Handle, error) {
	switch h.State() {
	case record.StateResolved:
		return h, nil
	case record.StateNew:
		return nil, fmt.Errorf("resolve %s: never persisted: %w", h, store.ErrPrecondition)
	}

	id := h.ID().MustGet()
	fields, err := c.backend.Fetch(ctx, h.ClassName(), id)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", h, err)
	}

	h.Hydrate(fields)
	c.logger.DebugContext(ctx, "resolved", "class", h.ClassName(), "id", id)
	return h, nil
}

// Fetch loads a record by class and id.
func (c *Client) Fetch(ctx context.Context, className string, id objid.ID) (*record.Handle, error) {
	return c.ResolveIfNeeded(ctx, record.Stub(className, id))
}

// FindAll runs q. Results are resolved handles in creation order.
func (c *Client) FindAll(ctx context.Context, q query.Query) ([]*record.Handle, error) {
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w", q.ClassName(), err)
	}

	var (
		objs []store.Object
		err  error
	)
	if src, relation, ok := q.Source(); ok {
		objs, err = c.backend.QueryRelated(ctx, src, relation, q.Filters(), q.MaxResults())
	} else {
		objs, err = c.backend.Query(ctx, q.ClassName(), q.Filters(), q.MaxResults())
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", q.ClassName(), err)
	}

	handles := make([]*record.Handle, len(objs))
	for i, o := range objs {
		handles[i] = record.Resolved(o.ClassName, o.ID, o.Fields)
	}
	c.logger.DebugContext(ctx, "found", "class", q.ClassName(), "count", len(handles))
	return handles, nil
}

// FindFirst runs q limited to one result.
func (c *Client) FindFirst(ctx context.Context, q query.Query) (mo.Option[*record.Handle], error) {
	handles, err := c.FindAll(ctx, q.Limit(1))
	if err != nil {
		return mo.None[*record.Handle](), err
	}
	if len(handles) == 0 {
		return mo.None[*record.Handle](), nil
	}
	return mo.Some(handles[0]), nil
}

// Materialize wraps h in the model registered for its class.
func (c *Client) Materialize(h *record.Handle) (record.Model, error) {
	return c.registry.Materialize(h)
}

// FindAllAs runs q and materializes every result as M.
func FindAllAs[M record.Model](ctx context.Context, c *Client, q query.Query) ([]M, error) {
	handles, err := c.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}

	models := make([]M, len(handles))
	for i, h := range handles {
		if models[i], err = record.As[M](c.registry, h); err != nil {
			return nil, err
		}
	}
	return models, nil
}
