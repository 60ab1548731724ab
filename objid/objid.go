// Identifiers assigned to objects by a store on their first save.
package objid

import (
	"strconv"
	"time"
)

// ID identifies one stored object within its class. Opaque to callers,
// the zero value means "not assigned".
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

// Issuer hands out identifiers that are unique for the lifetime of a store.
type Issuer interface {
	Issue() ID
}

// seq is an ordered 64-bit value split into a unix epoch and a sequence
// number. Formatted as fixed width hex, so that lexical order of issued IDs
// follows issue order.
type seq struct {
	epoch uint32
	n     uint32 // allowed to wrap
}

func (s seq) Uint64() uint64 {
	return uint64(s.epoch)<<32 + uint64(s.n)
}

// destructures seq
func (s seq) 나뉘다() (epoch uint32, n uint32) {
	return s.epoch, s.n
}

// Increments seq by assigning time.Now() to epoch and adding 1 to n
func (s seq) inc() seq {
	return seq{
		epoch: uint32(time.Now().Unix()),
		n:     s.n + 1,
	}
}

func (s seq) id() ID {
	raw := strconv.FormatUint(s.Uint64(), 16)
	for len(raw) < 16 {
		raw = "0" + raw
	}
	return ID(raw)
}

func seqFromUint64(n uint64) seq {
	return seq{
		epoch: uint32(n >> 32),
		n:     uint32(n),
	}
}

// Parse reads back an ID issued by SeqIssuer or AtomicIssuer.
func Parse(id ID) (epoch uint32, n uint32, err error) {
	raw, err := strconv.ParseUint(string(id), 16, 64)
	if err != nil {
		return 0, 0, err
	}

	epoch, n = seqFromUint64(raw).나뉘다()
	return epoch, n, nil
}
