package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"
)

const (
	ThumbMaxEdge = 400
	thumbQuality = 80
	largeQuality = 85
)

var contentTypeByFormat = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

type Variant struct {
	Data   []byte
	Width  int
	Height int
}

type OriginalVariant struct {
	Variant
	ContentType string
}

// Variants are the three derived artifacts of one source image: a thumbnail
// (longer edge <= ThumbMaxEdge, JPEG), a display copy capped at a total-pixel
// budget (JPEG), and the untouched original bytes.
type Variants struct {
	Thumb    Variant
	Large    Variant
	Original OriginalVariant
}

// LargeMaxEdge is the longer-edge cap derived from the megapixel budget.
func LargeMaxEdge(capMP float64) int {
	return int(math.Floor(math.Sqrt(capMP * 1_000_000)))
}

// Process derives all variants from raw image bytes. It is pure - no side
// effects - so failed pipelines can simply retry. Corrupt or unsupported
// input fails here, before anything touches storage.
func Process(data []byte, capMP float64) (*Variants, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported or corrupt image: %w", err)
	}

	result := &Variants{}
	bounds := img.Bounds().Size()
	result.Original = OriginalVariant{
		Variant:     Variant{Data: data, Width: bounds.X, Height: bounds.Y},
		ContentType: contentTypeByFormat[format],
	}
	if result.Original.ContentType == "" {
		result.Original.ContentType = "image/jpeg"
	}

	// Thumbnail never upscales
	thumbImage := resize.Thumbnail(ThumbMaxEdge, ThumbMaxEdge, img, resize.Lanczos3)
	if result.Thumb, err = encodeJPEG(thumbImage, thumbQuality); err != nil {
		return nil, err
	}

	largeImage := img
	if int64(bounds.X)*int64(bounds.Y) > int64(capMP*1_000_000) {
		maxEdge := uint(LargeMaxEdge(capMP))
		largeImage = resize.Thumbnail(maxEdge, maxEdge, img, resize.Lanczos3)
	}
	if result.Large, err = encodeJPEG(largeImage, largeQuality); err != nil {
		return nil, err
	}
	return result, nil
}

func encodeJPEG(img image.Image, quality int) (Variant, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return Variant{}, err
	}
	size := img.Bounds().Size()
	return Variant{Data: buf.Bytes(), Width: size.X, Height: size.Y}, nil
}
