package bvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	for _, raw := range []string{"00000001", "a/b", "50%", "é"} {
		// act
		seg := FromString(raw).Segment()
		back, err := FromSegment(seg)

		// assert
		assert.NotContains(t, seg, "/")
		assert.NoError(t, err)
		assert.Equal(t, raw, back.String())
	}
}

func TestFromSegmentInvalid(t *testing.T) {
	// act
	_, err := FromSegment("%zz")

	// assert
	assert.Error(t, err)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, FromID("").IsEmpty())
	assert.False(t, FromID("a1").IsEmpty())
}
