package fingerprint

import (
	"encoding/hex"
	"fmt"
	"math/bits"
)

// DefaultGridEdge is the edge length of the sampling grid. An 8x8 grid
// produces a 64-bit fingerprint.
const DefaultGridEdge = 8

// Fingerprint is a fixed-length bit sequence summarizing an image's
// coarse luminance pattern. Bits are stored in row-major scan order of
// the sampling grid, packed most-significant-bit first, so position i
// in two fingerprints always refers to the same spatial sample.
type Fingerprint struct {
	packed []byte
	bits   int
}

// FromBits builds a fingerprint from an explicit bit sequence.
func FromBits(bitseq []bool) Fingerprint {
	fp := Fingerprint{
		packed: make([]byte, (len(bitseq)+7)/8),
		bits:   len(bitseq),
	}
	for i, b := range bitseq {
		if b {
			fp.packed[i/8] |= 1 << (7 - uint(i)%8)
		}
	}
	return fp
}

// ParseHex reconstructs a fingerprint from its hexadecimal form as
// stored in the database. bitLen is the number of significant bits.
func ParseHex(s string, bitLen int) (Fingerprint, error) {
	packed, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	if len(packed)*8 < bitLen {
		return Fingerprint{}, fmt.Errorf("fingerprint %q too short for %d bits", s, bitLen)
	}
	return Fingerprint{packed: packed, bits: bitLen}, nil
}

// Len returns the number of bits in the fingerprint.
func (fp Fingerprint) Len() int { return fp.bits }

// Bit returns bit i in scan order.
func (fp Fingerprint) Bit(i int) bool {
	if i < 0 || i >= fp.bits {
		return false
	}
	return fp.packed[i/8]&(1<<(7-uint(i)%8)) != 0
}

// String returns the packed bits as a hexadecimal string.
func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp.packed)
}

// Distance returns the Hamming distance between two fingerprints: the
// count of bit positions at which they differ. When the lengths differ,
// the shorter fingerprint is treated as zero-padded, so every
// significant bit of the longer tail counts as a difference.
func Distance(a, b Fingerprint) int {
	longer, shorter := a.packed, b.packed
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	var d int
	for i, w := range longer {
		if i < len(shorter) {
			w ^= shorter[i]
		}
		d += bits.OnesCount8(w)
	}
	return d
}

// Similarity returns the percentage of matching bit positions between
// two fingerprints, in [0, 100]. Identical fingerprints score 100.
func Similarity(a, b Fingerprint) float64 {
	n := a.bits
	if b.bits > n {
		n = b.bits
	}
	if n == 0 {
		return 100.0
	}
	d := Distance(a, b)
	return float64(n-d) / float64(n) * 100.0
}
