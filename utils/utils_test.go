package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThreshold(t *testing.T) {
	parsed, err := ParseThreshold("90")
	require.NoError(t, err)
	assert.Equal(t, 90.0, parsed)

	// Fractional form is scaled to percent.
	parsed, err = ParseThreshold("0.85")
	require.NoError(t, err)
	assert.InDelta(t, 85.0, parsed, 1e-9)

	parsed, err = ParseThreshold("100")
	require.NoError(t, err)
	assert.Equal(t, 100.0, parsed)

	_, err = ParseThreshold("abc")
	assert.Error(t, err)

	_, err = ParseThreshold("150")
	assert.Error(t, err)

	_, err = ParseThreshold("-5")
	assert.Error(t, err)
}

func TestParseGridEdge(t *testing.T) {
	parsed, err := ParseGridEdge("8")
	require.NoError(t, err)
	assert.Equal(t, 8, parsed)

	_, err = ParseGridEdge("1")
	assert.Error(t, err)

	_, err = ParseGridEdge("65")
	assert.Error(t, err)

	_, err = ParseGridEdge("eight")
	assert.Error(t, err)
}
