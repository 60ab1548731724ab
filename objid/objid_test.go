package objid

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSeq(t *testing.T) {
	// arrange
	s := seqFromUint64(0x12345678_87654321)

	// act
	s64 := s.Uint64()
	epoch, n := s.나뉘다()

	// assert
	assert.Equal(t, uint64(0x12345678_87654321), s64)
	assert.Equal(t, uint32(0x12345678), epoch)
	assert.Equal(t, uint32(0x87654321), n)
}

func TestSeqInc(t *testing.T) {
	// arrange
	s := seqFromUint64(0x12345678_00000001)
	_, n := s.나뉘다()
	now := time.Now().Unix()

	// act
	next := s.inc()
	nextEpoch, nextN := next.나뉘다()

	// assert
	assert.InDelta(t, now, int64(nextEpoch), 1)
	assert.Equal(t, n+1, nextN)
}

func TestSeqIssuerOrdered(t *testing.T) {
	// arrange
	iss := SeqIssuer{}

	// act
	first := iss.Issue()
	second := iss.Issue()
	_, firstN, errFirst := Parse(first)
	_, secondN, errSecond := Parse(second)

	// assert
	assert.NoError(t, errFirst)
	assert.NoError(t, errSecond)
	assert.Len(t, string(first), 16)
	assert.Less(t, string(first), string(second))
	assert.Equal(t, firstN+1, secondN)
}

func TestAtomicIssuerUnique(t *testing.T) {
	// arrange
	iss := NewAtomicIssuer()
	var mx sync.Mutex
	seen := make(map[ID]struct{})
	var wg sync.WaitGroup

	// act
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := iss.Issue()
				mx.Lock()
				seen[id] = struct{}{}
				mx.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Len(t, seen, 800)
}

func TestUUIDIssuer(t *testing.T) {
	// act
	id := UUIDIssuer{}.Issue()
	_, err := uuid.Parse(id.String())

	// assert
	assert.NoError(t, err)
	assert.False(t, id.IsZero())
}

func TestByName(t *testing.T) {
	for _, name := range []string{"seq", "atomic", "uuid"} {
		iss, ok := ByName(name)
		assert.True(t, ok, name)
		assert.False(t, iss.Issue().IsZero(), name)
	}

	_, ok := ByName("snowflake")
	assert.False(t, ok)
}
