package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	"gallery/db"
	"gallery/models"
	"gallery/storage"
)

// testPipeline wires a throwaway SQLite database and disk store together.
func testPipeline(t *testing.T) (*Pipeline, *storage.DiskStore) {
	t.Helper()
	db.Init("", filepath.Join(t.TempDir(), "test.db"))
	models.Init()
	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(store), store
}

func testImageBytes(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testJPEGFile(t *testing.T, name string, width, height int) File {
	data := testImageBytes(t, width, height, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})
	return File{Name: name, ContentType: "image/jpeg", Data: data}
}

func testPNGFile(t *testing.T, name string, width, height int) File {
	data := testImageBytes(t, width, height, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
	return File{Name: name, ContentType: "image/png", Data: data}
}

// flakyStore passes everything through until the Put budget runs out.
type flakyStore struct {
	storage.ObjectStore
	putsLeft int
}

var _ storage.ObjectStore = (*flakyStore)(nil)

func (s *flakyStore) Put(key string, data []byte, contentType string) error {
	if s.putsLeft <= 0 {
		return errors.New("store unavailable")
	}
	s.putsLeft--
	return s.ObjectStore.Put(key, data, contentType)
}

func assetRowCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := db.Instance.Model(&models.Asset{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	return count
}

func storedObjectCount(t *testing.T, store storage.ObjectStore) int {
	t.Helper()
	result, err := store.List("", "")
	if err != nil {
		t.Fatal(err)
	}
	return len(result.Objects)
}
