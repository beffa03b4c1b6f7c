package fingerprint

import (
	"image"

	"github.com/nfnt/resize"
)

// Perceptual luma weights (ITU-R BT.601). Alpha is ignored.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Compute calculates the average-hash fingerprint of an image: the
// image is resampled down to a gridEdge x gridEdge grid, each sample is
// reduced to its luminance, and each bit records whether that sample is
// at least as bright as the grid mean. Bits are emitted in row-major
// scan order. Deterministic for identical pixel content.
func Compute(img image.Image, gridEdge int) Fingerprint {
	if gridEdge <= 0 {
		gridEdge = DefaultGridEdge
	}

	scaled := resize.Resize(uint(gridEdge), uint(gridEdge), img, resize.Bilinear)
	bounds := scaled.Bounds()

	lumas := make([]float64, 0, gridEdge*gridEdge)
	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			luma := lumaR*float64(r>>8) + lumaG*float64(g>>8) + lumaB*float64(b>>8)
			lumas = append(lumas, luma)
			sum += luma
		}
	}

	mean := sum / float64(len(lumas))

	bitseq := make([]bool, len(lumas))
	for i, luma := range lumas {
		bitseq[i] = luma >= mean
	}
	return FromBits(bitseq)
}
