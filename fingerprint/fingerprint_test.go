package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitsOf(n int, set ...int) []bool {
	bitseq := make([]bool, n)
	for _, i := range set {
		bitseq[i] = true
	}
	return bitseq
}

func TestFromBitsRoundTrip(t *testing.T) {
	fp := FromBits(bitsOf(64, 0, 7, 8, 63))

	assert.Equal(t, 64, fp.Len())
	assert.True(t, fp.Bit(0))
	assert.True(t, fp.Bit(7))
	assert.True(t, fp.Bit(8))
	assert.True(t, fp.Bit(63))
	assert.False(t, fp.Bit(1))
	assert.False(t, fp.Bit(62))

	// Out-of-range positions read as zero
	assert.False(t, fp.Bit(-1))
	assert.False(t, fp.Bit(64))
}

func TestHexRoundTrip(t *testing.T) {
	fp := FromBits(bitsOf(64, 0, 1, 2, 3, 31, 32, 60))

	parsed, err := ParseHex(fp.String(), fp.Len())
	require.NoError(t, err)
	assert.Equal(t, fp.String(), parsed.String())
	assert.Equal(t, 0, Distance(fp, parsed))
	assert.Equal(t, 100.0, Similarity(fp, parsed))
}

func TestParseHexInvalid(t *testing.T) {
	_, err := ParseHex("not-hex", 64)
	assert.Error(t, err)

	_, err = ParseHex("ff", 64)
	assert.Error(t, err, "two hex digits cannot hold 64 bits")
}

func TestDistance(t *testing.T) {
	a := FromBits(bitsOf(64))
	b := FromBits(bitsOf(64, 0, 13, 63))

	assert.Equal(t, 0, Distance(a, a))
	assert.Equal(t, 3, Distance(a, b))
	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistanceMismatchedLengths(t *testing.T) {
	short := FromBits(bitsOf(16))
	long := FromBits(bitsOf(64, 20, 21))

	// The longer tail counts as differing bits in both directions.
	assert.Equal(t, 2, Distance(short, long))
	assert.Equal(t, Distance(short, long), Distance(long, short))
	assert.Equal(t, Similarity(short, long), Similarity(long, short))
}

func TestSimilarity(t *testing.T) {
	a := FromBits(bitsOf(64))

	assert.Equal(t, 100.0, Similarity(a, a))

	twoOff := FromBits(bitsOf(64, 5, 6))
	assert.InDelta(t, 96.875, Similarity(a, twoOff), 1e-9)

	allOff := make([]bool, 64)
	for i := range allOff {
		allOff[i] = true
	}
	assert.Equal(t, 0.0, Similarity(a, FromBits(allOff)))
}

func TestSimilarityZeroLength(t *testing.T) {
	assert.Equal(t, 100.0, Similarity(Fingerprint{}, Fingerprint{}))
}
