package httpstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"objrel/objid"
	"objrel/store"
	"objrel/store/memstore"
	"objrel/store/storetest"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, opts ServerOptions) *httptest.Server {
	srv := httptest.NewServer(NewServer(memstore.NewDefault(), opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		srv := serve(t, ServerOptions{})
		return NewClient(srv.URL, ClientOptions{HTTPClient: srv.Client()})
	})
}

func TestCredentials(t *testing.T) {
	// arrange
	ctx := context.Background()
	opts := ServerOptions{ApplicationID: "app", ClientKey: "secret"}
	srv := serve(t, opts)
	good := NewClient(srv.URL, ClientOptions{ApplicationID: "app", ClientKey: "secret"})
	bad := NewClient(srv.URL, ClientOptions{ApplicationID: "app", ClientKey: "guess"})
	fields := map[string]any{"name": "Taylor Swift"}

	// act
	_, goodErr := good.Save(ctx, "Artist", mo.None[objid.ID](), fields, nil)
	_, badErr := bad.Save(ctx, "Artist", mo.None[objid.ID](), fields, nil)

	// assert
	assert.NoError(t, goodErr)
	assert.ErrorIs(t, badErr, store.ErrNetwork)
}

func TestUnreachable(t *testing.T) {
	// arrange
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	// act
	_, err := NewClient(url, ClientOptions{}).Fetch(context.Background(), "Artist", objid.ID("a1"))

	// assert
	assert.ErrorIs(t, err, store.ErrNetwork)
}

func TestMalformedBody(t *testing.T) {
	// arrange
	srv := serve(t, ServerOptions{})

	// act
	resp, err := srv.Client().Post(srv.URL+"/1/classes/Artist", "application/json", nil)

	// assert
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusMapping(t *testing.T) {
	for _, err := range []error{store.ErrNotFound, store.ErrValidation, store.ErrPrecondition, store.ErrNetwork} {
		assert.ErrorIs(t, errorOf(statusOf(err)), err)
	}
}
