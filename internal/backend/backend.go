// Builds the store.Store selected by config.
package backend

import (
	"fmt"
	"io"

	"objrel/config"
	"objrel/objid"
	"objrel/storage"
	"objrel/store"
	"objrel/store/httpstore"
	"objrel/store/memstore"
	"objrel/store/sqlitestore"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the configured backend and a closer releasing it.
func Open(opts config.Options) (store.Store, io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	// empty ids leave the choice to the backend
	ids, _ := objid.ByName(opts.IDs)

	switch opts.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(opts.SQLitePath, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", opts.SQLitePath, err)
		}
		return s, s, nil

	case config.BackendHTTP:
		c := httpstore.NewClient(opts.HTTPURL, httpstore.ClientOptions{
			ApplicationID: opts.ApplicationID,
			ClientKey:     opts.ClientKey,
		})
		return c, nopCloser{}, nil
	}

	if ids == nil {
		ids = &objid.SeqIssuer{}
	}
	stg, _ := storage.ByName[[]byte](opts.Storage)
	s, err := memstore.New(stg, opts.Codec, ids)
	if err != nil {
		return nil, nil, err
	}
	return s, nopCloser{}, nil
}
