// Object store persisted in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"objrel/codec"
	"objrel/objid"
	"objrel/store"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/samber/mo"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db    *sql.DB
	idiss objid.Issuer
	codec codec.Codec[map[string]any]
}

// Open opens (creating when needed) the database at path. ":memory:" gives
// a private in-memory database. A nil issuer hands out uuids, sequential
// ids would collide across restarts.
func Open(path string, idIssuer objid.Issuer) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// every pooled connection to :memory: would see its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if idIssuer == nil {
		idIssuer = objid.UUIDIssuer{}
	}

	s := &Store{db: db, idiss: idIssuer, codec: codec.NewJsonCodec[map[string]any]()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

func (s *Store) Save(
	ctx context.Context,
	className string,
	id mo.Option[objid.ID],
	fields map[string]any,
	edits []store.RelationEdit,
) (objid.ID, error) {
	if err := validateSave(className, fields, edits); err != nil {
		return "", fmt.Errorf("save %s: %w", className, err)
	}

	data, err := s.codec.Encode(store.EncodeFields(fields))
	if err != nil {
		return "", fmt.Errorf("save %s: encoding: %w: %w", className, store.ErrValidation, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", backendErr("save "+className, err)
	}
	defer tx.Rollback()

	objectID, ok := id.Get()
	if ok {
		res, err := tx.ExecContext(ctx, queryUpdateObject, string(data), className, objectID.String())
		if err != nil {
			return "", backendErr("save "+className, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", fmt.Errorf("save %s %s: %w", className, objectID, store.ErrNotFound)
		}
	} else {
		objectID = s.idiss.Issue()
		if _, err := tx.ExecContext(ctx, queryInsertObject, className, objectID.String(), string(data)); err != nil {
			return "", backendErr("save "+className, err)
		}
	}

	if err := applyEdits(ctx, tx, store.Pointer{ClassName: className, ObjectID: objectID}, edits); err != nil {
		return "", fmt.Errorf("save %s %s: %w", className, objectID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", backendErr("save "+className, err)
	}

	return objectID, nil
}

func validateSave(className string, fields map[string]any, edits []store.RelationEdit) error {
	if err := store.ValidateClassName(className); err != nil {
		return err
	}
	if err := store.ValidateFields(fields); err != nil {
		return err
	}
	return store.ValidateEdits(edits)
}

// applyEdits requires added members to exist and every relation to hold
// members of a single class.
func applyEdits(ctx context.Context, tx *sql.Tx, source store.Pointer, edits []store.RelationEdit) error {
	for _, e := range edits {
		args := []any{source.ClassName, source.ObjectID.String(), e.Relation, e.Target.ClassName, e.Target.ObjectID.String()}

		if e.Op == store.EditRemove {
			if _, err := tx.ExecContext(ctx, queryRemoveRelation, args...); err != nil {
				return backendErr("remove relation", err)
			}
			continue
		}

		var count int
		if err := tx.QueryRowContext(ctx, queryObjectExists, e.Target.ClassName, e.Target.ObjectID.String()).Scan(&count); err != nil {
			return backendErr("add relation", err)
		}
		if count == 0 {
			return fmt.Errorf("relation %q member %s: %w", e.Relation, e.Target, store.ErrNotFound)
		}

		var class string
		err := tx.QueryRowContext(ctx, queryRelationClass, source.ClassName, source.ObjectID.String(), e.Relation).Scan(&class)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return backendErr("add relation", err)
		}
		if err == nil && class != e.Target.ClassName {
			return fmt.Errorf("relation %q holds %s, not %s: %w",
				e.Relation, class, e.Target.ClassName, store.ErrValidation)
		}

		if _, err := tx.ExecContext(ctx, queryAddRelation, args...); err != nil {
			return backendErr("add relation", err)
		}
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, className string, id objid.ID) (map[string]any, error) {
	var data string
	err := s.db.QueryRowContext(ctx, queryGetObject, className, id.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch %s %s: %w", className, id, store.ErrNotFound)
	}
	if err != nil {
		return nil, backendErr("fetch "+className, err)
	}

	return s.decode(className, id, data)
}

func (s *Store) Query(ctx context.Context, className string, filters []store.Filter, limit int) ([]store.Object, error) {
	if err := store.ValidateClassName(className); err != nil {
		return nil, err
	}
	if err := store.ValidateFilters(filters); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, queryClassObjects, className)
	if err != nil {
		return nil, backendErr("query "+className, err)
	}
	defer rows.Close()

	var out []store.Object
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, backendErr("query "+className, err)
		}

		obj, err := s.object(className, objid.ID(id), data)
		if err != nil {
			return nil, err
		}
		if !store.Match(obj.Fields, filters) {
			continue
		}

		out = append(out, obj)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, rows.Err()
}

func (s *Store) QueryRelated(
	ctx context.Context,
	source store.Pointer,
	relation string,
	filters []store.Filter,
	limit int,
) ([]store.Object, error) {
	if err := store.ValidatePointer(source); err != nil {
		return nil, err
	}
	if err := store.ValidateRelationName(relation); err != nil {
		return nil, err
	}
	if err := store.ValidateFilters(filters); err != nil {
		return nil, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, queryObjectExists, source.ClassName, source.ObjectID.String()).Scan(&count); err != nil {
		return nil, backendErr("query related", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("query %s.%s: %w", source, relation, store.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, queryRelatedObjects, source.ClassName, source.ObjectID.String(), relation)
	if err != nil {
		return nil, backendErr("query related", err)
	}
	defer rows.Close()

	var out []store.Object
	for rows.Next() {
		var class, id, data string
		if err := rows.Scan(&class, &id, &data); err != nil {
			return nil, backendErr("query related", err)
		}

		obj, err := s.object(class, objid.ID(id), data)
		if err != nil {
			return nil, err
		}
		if !store.Match(obj.Fields, filters) {
			continue
		}

		out = append(out, obj)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, rows.Err()
}

func (s *Store) object(className string, id objid.ID, data string) (store.Object, error) {
	fields, err := s.decode(className, id, data)
	if err != nil {
		return store.Object{}, err
	}
	return store.Object{ID: id, ClassName: className, Fields: fields}, nil
}

func (s *Store) decode(className string, id objid.ID, data string) (map[string]any, error) {
	raw, err := s.codec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s %s: %w: %w", className, id, store.ErrValidation, err)
	}
	return store.DecodeFields(raw)
}

// database failures are reported as the store being unreachable
func backendErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, store.ErrNetwork, err)
}
