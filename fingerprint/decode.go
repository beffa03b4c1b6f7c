package fingerprint

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeError reports that a byte source could not be interpreted as a
// raster image. The caller should skip the offending image and carry on
// with the rest of the batch.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode interprets encoded image bytes as a raster image. Supported
// formats are JPEG, PNG, GIF, WebP, BMP and TIFF.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

// FromBytes decodes encoded image bytes and computes their fingerprint.
// Decode failures are returned as *DecodeError, unmodified.
func FromBytes(data []byte, gridEdge int) (Fingerprint, error) {
	img, err := Decode(data)
	if err != nil {
		return Fingerprint{}, err
	}
	return Compute(img, gridEdge), nil
}
