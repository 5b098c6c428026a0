package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

const rotateQuality = 95

// Rotate turns the image clockwise by 90, 180 or 270 degrees and re-encodes
// it as JPEG. Other angles are rejected. The result feeds straight back into
// Process to derive a fresh variant set.
func Rotate(data []byte, degrees int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported or corrupt image: %w", err)
	}
	var rotated image.Image
	switch degrees {
	case 90:
		// imaging rotates counter-clockwise
		rotated = imaging.Rotate270(img)
	case 180:
		rotated = imaging.Rotate180(img)
	case 270:
		rotated = imaging.Rotate90(img)
	default:
		return nil, fmt.Errorf("rotation must be 90, 180 or 270 degrees, got %d", degrees)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rotated, &jpeg.Options{Quality: rotateQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
