package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
)

// jpegQuality is the fixed encoder quality factor (~0.8 of maximum).
const jpegQuality = 80

// ErrEncodingFailed is returned when the canvas cannot be serialized. This
// indicates a configuration-level problem and is not retried.
var ErrEncodingFailed = errors.New("image encoding failed")

// EncodeJPEG serializes the canvas as a 24-bit RGB JPEG byte stream at the
// fixed quality factor. The output carries no alpha channel.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return buf.Bytes(), nil
}
