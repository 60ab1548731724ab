package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"objrel/codec"
	"objrel/objid"
	"objrel/store"

	"github.com/samber/mo"
)

var _ store.Store = (*Client)(nil)

type ClientOptions struct {
	ApplicationID string
	ClientKey     string
	// defaults to a client with a 30s timeout
	HTTPClient *http.Client
}

// Client is a store.Store talking to a Server. Transport failures and 5xx
// responses are reported as store.ErrNetwork, nothing is retried.
type Client struct {
	baseURL string
	opts    ClientOptions
	http    *http.Client
}

func NewClient(baseURL string, opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), opts: opts, http: hc}
}

func (c *Client) Save(
	ctx context.Context,
	className string,
	id mo.Option[objid.ID],
	fields map[string]any,
	edits []store.RelationEdit,
) (objid.ID, error) {
	// values JSON cannot tell apart must be rejected before they are sent
	if err := store.ValidateClassName(className); err != nil {
		return "", fmt.Errorf("save %s: %w", className, err)
	}
	if err := store.ValidateFields(fields); err != nil {
		return "", fmt.Errorf("save %s: %w", className, err)
	}
	if err := store.ValidateEdits(edits); err != nil {
		return "", fmt.Errorf("save %s: %w", className, err)
	}

	req := saveRequest{Fields: store.EncodeFields(fields), Edits: editsToWire(edits)}

	method, path := http.MethodPost, "/1/classes/"+url.PathEscape(className)
	if existing, ok := id.Get(); ok {
		method, path = http.MethodPut, path+"/"+url.PathEscape(existing.String())
	}

	var resp saveResponse
	if err := c.do(ctx, method, path, req, &resp); err != nil {
		return "", fmt.Errorf("save %s: %w", className, err)
	}
	return objid.ID(resp.ObjectID), nil
}

func (c *Client) Fetch(ctx context.Context, className string, id objid.ID) (map[string]any, error) {
	path := "/1/classes/" + url.PathEscape(className) + "/" + url.PathEscape(id.String())

	var resp fetchResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", className, id, err)
	}
	return store.DecodeFields(resp.Fields)
}

func (c *Client) Query(ctx context.Context, className string, filters []store.Filter, limit int) ([]store.Object, error) {
	if err := store.ValidateFilters(filters); err != nil {
		return nil, fmt.Errorf("query %s: %w", className, err)
	}
	path := "/1/query/" + url.PathEscape(className)

	var resp queryResponse
	req := queryRequest{Filters: filtersToWire(filters), Limit: limit}
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("query %s: %w", className, err)
	}
	return objectsFromWire(resp.Results)
}

func (c *Client) QueryRelated(
	ctx context.Context,
	source store.Pointer,
	relation string,
	filters []store.Filter,
	limit int,
) ([]store.Object, error) {
	if err := store.ValidateFilters(filters); err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", source, relation, err)
	}
	path := "/1/related/" + url.PathEscape(source.ClassName) + "/" +
		url.PathEscape(source.ObjectID.String()) + "/" + url.PathEscape(relation)

	var resp queryResponse
	req := queryRequest{Filters: filtersToWire(filters), Limit: limit}
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", source, relation, err)
	}
	return objectsFromWire(resp.Results)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w: %w", store.ErrValidation, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.ApplicationID != "" || c.opts.ClientKey != "" {
		req.Header.Set(HeaderApplicationID, c.opts.ApplicationID)
		req.Header.Set(HeaderClientKey, c.opts.ClientKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w: %w", store.ErrNetwork, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		e, _ := codec.JsonDecode[errorResponse](data)
		msg := e.Error
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s: %w", msg, errorOf(resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w: %w", store.ErrNetwork, err)
	}
	return nil
}
