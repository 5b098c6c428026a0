package processing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	return img
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(width, height), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(width, height)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height, format
}

func Test_LargeMaxEdge(t *testing.T) {
	tests := []struct {
		capMP float64
		want  int
	}{
		{25.0, 5000},
		{0.01, 100},
		{1.0, 1000},
	}
	for _, tt := range tests {
		if got := LargeMaxEdge(tt.capMP); got != tt.want {
			t.Errorf("LargeMaxEdge(%v) = %v, want %v", tt.capMP, got, tt.want)
		}
	}
}

func Test_Process_SmallImage(t *testing.T) {
	variants, err := Process(testJPEG(t, 200, 100), 25.0)
	if err != nil {
		t.Fatal(err)
	}
	// Thumbnail never upscales
	if w, h, _ := decodeSize(t, variants.Thumb.Data); w != 200 || h != 100 {
		t.Errorf("thumb = %dx%d, want 200x100", w, h)
	}
	// Under the pixel budget the large variant keeps source dimensions
	w, h, format := decodeSize(t, variants.Large.Data)
	if w != 200 || h != 100 {
		t.Errorf("large = %dx%d, want 200x100", w, h)
	}
	if format != "jpeg" {
		t.Errorf("large format = %s, want jpeg", format)
	}
	if variants.Large.Width != 200 || variants.Large.Height != 100 {
		t.Errorf("large reported as %dx%d, want 200x100", variants.Large.Width, variants.Large.Height)
	}
}

func Test_Process_ThumbCapped(t *testing.T) {
	variants, err := Process(testJPEG(t, 800, 600), 25.0)
	if err != nil {
		t.Fatal(err)
	}
	if w, h, _ := decodeSize(t, variants.Thumb.Data); w != 400 || h != 300 {
		t.Errorf("thumb = %dx%d, want 400x300", w, h)
	}
}

func Test_Process_LargeDownscaled(t *testing.T) {
	// 200x100 = 20k pixels against a 10k budget, max edge 100
	variants, err := Process(testJPEG(t, 200, 100), 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if w, h, _ := decodeSize(t, variants.Large.Data); w != 100 || h != 50 {
		t.Errorf("large = %dx%d, want 100x50", w, h)
	}
}

func Test_Process_OriginalUntouched(t *testing.T) {
	source := testPNG(t, 50, 40)
	variants, err := Process(source, 25.0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(variants.Original.Data, source) {
		t.Error("original bytes must pass through unmodified")
	}
	if variants.Original.ContentType != "image/png" {
		t.Errorf("original content type = %s, want image/png", variants.Original.ContentType)
	}
	if variants.Original.Width != 50 || variants.Original.Height != 40 {
		t.Errorf("original reported as %dx%d, want 50x40", variants.Original.Width, variants.Original.Height)
	}
}

func Test_Process_CorruptInput(t *testing.T) {
	if _, err := Process([]byte("this is not an image"), 25.0); err == nil {
		t.Error("corrupt input must fail")
	}
	if _, err := Process([]byte{}, 25.0); err == nil {
		t.Error("empty input must fail")
	}
}
