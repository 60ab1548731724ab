package objid

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	_ Issuer = (*SeqIssuer)(nil)
	_ Issuer = (*AtomicIssuer)(nil)
	_ Issuer = UUIDIssuer{}
)

// TODO think of ways to do this without a mutex
type SeqIssuer struct {
	latest seq
	mx     sync.Mutex
}

func (c *SeqIssuer) Issue() ID {
	c.mx.Lock()
	defer c.mx.Unlock()

	s := c.latest.inc()
	c.latest = s
	return s.id()
}

// Stores only the sequence part, epoch is taken at issue time.
type AtomicIssuer struct {
	n uint32
}

func NewAtomicIssuer() *AtomicIssuer {
	return &AtomicIssuer{}
}

func (a *AtomicIssuer) Issue() ID {
	n := atomic.AddUint32(&a.n, 1)
	return seq{epoch: uint32(time.Now().Unix()), n: n}.id()
}

// Issues random (version 4) uuids. Unordered, use it when ids
// must not leak creation order.
type UUIDIssuer struct{}

func (UUIDIssuer) Issue() ID {
	return ID(uuid.NewString())
}

// ByName returns a fresh issuer: "seq", "atomic" or "uuid".
func ByName(name string) (Issuer, bool) {
	switch name {
	case "seq":
		return &SeqIssuer{}, true
	case "atomic":
		return NewAtomicIssuer(), true
	case "uuid":
		return UUIDIssuer{}, true
	}
	return nil, false
}
