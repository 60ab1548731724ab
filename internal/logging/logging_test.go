package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	// arrange
	var quiet, verbose bytes.Buffer

	// act
	NewTo(&quiet, false, false).Debug("hidden")
	NewTo(&verbose, true, false).Debug("shown", "class", "Song")

	// assert
	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "shown")
	assert.Contains(t, verbose.String(), "class=Song")
}

func TestPretty(t *testing.T) {
	// arrange
	var out bytes.Buffer

	// act
	NewTo(&out, false, true).Info("persisted", "id", "a1")

	// assert
	assert.Contains(t, out.String(), "persisted")
}
