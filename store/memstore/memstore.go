// In-memory object store over an ordered byte storage.
//
// # Data layout.
//
//	[obj/{class}/{id}] = [encoded document]
//	[rel/{class}/{id}/{relation}/{target class}/{target id}] = [*obj/{target class}/{target id}]
//
// An edge value is basically "a pointer" to the member's object key.
// Documents carry a creation sequence number, query results are ordered
// by it.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	bval "objrel/bvalue"
	"objrel/codec"
	"objrel/key"
	"objrel/objid"
	"objrel/storage"
	"objrel/store"

	"github.com/samber/mo"
)

var _ store.Store = (*Store)(nil)

type document struct {
	Seq    uint64         `bson:"seq" json:"seq" codec:"seq"`
	Class  string         `bson:"class" json:"class" codec:"class"`
	ID     string         `bson:"id" json:"id" codec:"id"`
	Fields map[string]any `bson:"fields" json:"fields" codec:"fields"`
}

type Store struct {
	mx      sync.RWMutex
	storage storage.Storage[[]byte]
	codec   codec.Codec[document]
	idiss   objid.Issuer
	seq     uint64
}

func New(
	stg storage.Storage[[]byte],
	codecName string,
	idIssuer objid.Issuer,
) (*Store, error) {
	c, ok := codec.ByName[document](codecName)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", codecName)
	}
	if _, err := c.Encode(document{Fields: map[string]any{}}); err != nil {
		return nil, fmt.Errorf("cannot create Store since documents are not serializable with %s: %w", codecName, err)
	}
	return &Store{storage: stg, codec: c, idiss: idIssuer}, nil
}

// NewDefault returns a store over a prefix tree with bson documents and
// sequential ids.
func NewDefault() *Store {
	s, err := New(storage.NewPrefixTreeStorage[[]byte](), "bson", &objid.SeqIssuer{})
	if err != nil {
		panic("default memstore: " + err.Error())
	}
	return s
}

func (s *Store) Save(
	ctx context.Context,
	className string,
	id mo.Option[objid.ID],
	fields map[string]any,
	edits []store.RelationEdit,
) (objid.ID, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("save %s: %w: %w", className, store.ErrNetwork, err)
	}
	if err := validateSave(className, fields, edits); err != nil {
		return "", fmt.Errorf("save %s: %w", className, err)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	var doc document
	if existingID, ok := id.Get(); ok {
		existing, found, err := s.find(className, existingID)
		if err != nil {
			return "", err
		}
		if !found {
			return "", fmt.Errorf("save %s %s: %w", className, existingID, store.ErrNotFound)
		}
		doc = existing
	} else {
		s.seq++
		doc = document{Seq: s.seq, Class: className, ID: s.idiss.Issue().String()}
	}
	doc.Fields = store.EncodeFields(fields)

	objKey := key.Object(className, bval.FromString(doc.ID))
	if err := s.checkEdits(objKey, edits); err != nil {
		return "", fmt.Errorf("save %s %s: %w", className, doc.ID, err)
	}

	recb, err := s.codec.Encode(doc)
	if err != nil {
		return "", fmt.Errorf("save %s: encoding: %w: %w", className, store.ErrValidation, err)
	}

	// nothing is written before this point
	s.storage.Set(objKey.String(), recb)
	for _, e := range edits {
		targetKey := key.Object(e.Target.ClassName, bval.FromID(e.Target.ObjectID))
		edgeKey := key.Edge(className, objKey.ID, e.Relation, e.Target.ClassName, targetKey.ID)
		switch e.Op {
		case store.EditAdd:
			s.storage.Set(edgeKey.String(), bval.Value(targetKey.String()))
		case store.EditRemove:
			s.storage.Del(edgeKey.String())
		}
	}

	return objid.ID(doc.ID), nil
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

// checkEdits requires added members to exist and every relation to hold
// members of a single class.
func (s *Store) checkEdits(source key.Key, edits []store.RelationEdit) error {
	classes := make(map[string]string)
	for _, e := range edits {
		if e.Op != store.EditAdd {
			continue
		}

		targetKey := key.Object(e.Target.ClassName, bval.FromID(e.Target.ObjectID))
		if _, ok := s.storage.Get(targetKey.String()); !ok {
			return fmt.Errorf("relation %q member %s: %w", e.Relation, e.Target, store.ErrNotFound)
		}

		class, seen := classes[e.Relation]
		if !seen {
			rng := s.storage.Range(key.EdgePrefix(source.Class, source.ID, e.Relation))
			if rng.Next() {
				k, _ := rng.Value()
				edge, err := key.FromString(k)
				if err != nil {
					panic("incorrect storage key format")
				}
				class = edge.TargetClass
			} else {
				class = e.Target.ClassName
			}
			classes[e.Relation] = class
		}
		if class != e.Target.ClassName {
			return fmt.Errorf("relation %q holds %s, not %s: %w",
				e.Relation, class, e.Target.ClassName, store.ErrValidation)
		}
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, className string, id objid.ID) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", className, store.ErrNetwork, err)
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	doc, ok, err := s.find(className, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fetch %s %s: %w", className, id, store.ErrNotFound)
	}

	return store.DecodeFields(doc.Fields)
}

func (s *Store) Query(ctx context.Context, className string, filters []store.Filter, limit int) ([]store.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w: %w", className, store.ErrNetwork, err)
	}
	if err := store.ValidateClassName(className); err != nil {
		return nil, err
	}
	if err := store.ValidateFilters(filters); err != nil {
		return nil, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	var docs []document
	rng := s.storage.Range(key.ObjectPrefix(className))
	for rng.Next() {
		k, recb := rng.Value()
		doc, err := s.decode(k, recb)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return collect(docs, filters, limit)
}

func (s *Store) QueryRelated(
	ctx context.Context,
	source store.Pointer,
	relation string,
	filters []store.Filter,
	limit int,
) ([]store.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("query %s.%s: %w: %w", source, relation, store.ErrNetwork, err)
	}
	if err := store.ValidatePointer(source); err != nil {
		return nil, err
	}
	if err := store.ValidateRelationName(relation); err != nil {
		return nil, err
	}
	if err := store.ValidateFilters(filters); err != nil {
		return nil, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	if _, ok, err := s.find(source.ClassName, source.ObjectID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("query %s.%s: %w", source, relation, store.ErrNotFound)
	}

	var docs []document
	rng := s.storage.Range(key.EdgePrefix(source.ClassName, bval.FromID(source.ObjectID), relation))
	for rng.Next() {
		_, targetKey := rng.Value()
		recb, ok := s.storage.Get(string(targetKey))
		if !ok {
			continue
		}
		doc, err := s.decode(string(targetKey), recb)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return collect(docs, filters, limit)
}

func (s *Store) find(className string, id objid.ID) (document, bool, error) {
	k := key.Object(className, bval.FromID(id)).String()
	recb, ok := s.storage.Get(k)
	if !ok {
		return document{}, false, nil
	}

	doc, err := s.decode(k, recb)
	return doc, err == nil, err
}

func (s *Store) decode(k string, recb []byte) (document, error) {
	doc, err := s.codec.Decode(recb)
	if err != nil {
		return document{}, fmt.Errorf("decoding %s: %w: %w", k, store.ErrValidation, err)
	}
	return doc, nil
}

func collect(docs []document, filters []store.Filter, limit int) ([]store.Object, error) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })

	out := make([]store.Object, 0, len(docs))
	for _, doc := range docs {
		fields, err := store.DecodeFields(doc.Fields)
		if err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", doc.Class, doc.ID, err)
		}
		if !store.Match(fields, filters) {
			continue
		}

		out = append(out, store.Object{ID: objid.ID(doc.ID), ClassName: doc.Class, Fields: fields})
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}
