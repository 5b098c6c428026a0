package pipeline

import (
	"errors"
	"strings"
	"testing"

	"gallery/models"
	"gallery/storage"
)

func ingestOneAsset(t *testing.T, pipe *Pipeline, file File) *models.Asset {
	t.Helper()
	assets, err := pipe.IngestBatch(nil, []File{file}, nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	return &assets[0]
}

func Test_Rotate(t *testing.T) {
	pipe, _ := testPipeline(t)
	asset := ingestOneAsset(t, pipe, testJPEGFile(t, "photo.jpg", 200, 100))
	oldKeys := asset.AllKeys()

	rotated, err := pipe.Rotate(asset.ID, 90)
	if err != nil {
		t.Fatal(err)
	}
	if rotated.ID != asset.ID {
		t.Errorf("id changed: %d -> %d", asset.ID, rotated.ID)
	}
	if *rotated.Width != 100 || *rotated.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 100x200", *rotated.Width, *rotated.Height)
	}
	for _, key := range oldKeys {
		if key == rotated.KeyThumb || key == rotated.KeyLarge || key == rotated.KeyOriginal {
			t.Errorf("key %s was reused", key)
		}
		if _, err := pipe.Blobs.Get(key); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("old blob %s still present (err=%v)", key, err)
		}
	}
	for _, key := range rotated.AllKeys() {
		if _, err := pipe.Blobs.Get(key); err != nil {
			t.Errorf("new blob %s: %v", key, err)
		}
	}
	// Rotation re-encodes, so even a non-JPEG source ends up with a .jpg original
	if !strings.HasSuffix(rotated.KeyOriginal, ".jpg") {
		t.Errorf("original key = %s, want .jpg", rotated.KeyOriginal)
	}
}

func Test_Rotate_Errors(t *testing.T) {
	pipe, _ := testPipeline(t)
	asset := ingestOneAsset(t, pipe, testJPEGFile(t, "photo.jpg", 50, 50))

	if _, err := pipe.Rotate(asset.ID, 45); KindOf(err) != KindValidation {
		t.Errorf("rotate 45 = %v, want a validation error", err)
	}
	if _, err := pipe.Rotate(9999, 90); KindOf(err) != KindNotFound {
		t.Errorf("rotate missing asset = %v, want a not-found error", err)
	}

	// A row whose blob vanished behind its back
	if err := pipe.Blobs.DeleteMany(asset.AllKeys()); err != nil {
		t.Fatal(err)
	}
	if _, err := pipe.Rotate(asset.ID, 90); KindOf(err) != KindNotFound {
		t.Errorf("rotate without original blob = %v, want a not-found error", err)
	}
}

func Test_Replace(t *testing.T) {
	pipe, _ := testPipeline(t)
	asset := ingestOneAsset(t, pipe, testJPEGFile(t, "photo.jpg", 200, 100))
	oldKeys := asset.AllKeys()

	replaced, err := pipe.Replace(asset.ID, &File{
		Name:        "new.png",
		ContentType: "image/png",
		Data:        testPNGFile(t, "new.png", 50, 40).Data,
	})
	if err != nil {
		t.Fatal(err)
	}
	if replaced.ID != asset.ID {
		t.Errorf("id changed: %d -> %d", asset.ID, replaced.ID)
	}
	if *replaced.Width != 50 || *replaced.Height != 40 {
		t.Errorf("dimensions = %dx%d, want 50x40", *replaced.Width, *replaced.Height)
	}
	if !strings.HasSuffix(replaced.KeyOriginal, ".png") {
		t.Errorf("original key = %s, want .png", replaced.KeyOriginal)
	}
	for _, key := range oldKeys {
		if _, err := pipe.Blobs.Get(key); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("old blob %s still present (err=%v)", key, err)
		}
	}
}

func Test_Replace_KeepsAssetOnUploadFailure(t *testing.T) {
	pipe, store := testPipeline(t)
	asset := ingestOneAsset(t, pipe, testJPEGFile(t, "photo.jpg", 200, 100))

	pipe.Blobs = &flakyStore{ObjectStore: store, putsLeft: 1}
	_, err := pipe.Replace(asset.ID, &File{
		Name:        "new.jpg",
		ContentType: "image/jpeg",
		Data:        testJPEGFile(t, "new.jpg", 50, 50).Data,
	})
	if KindOf(err) != KindStorage {
		t.Fatalf("error = %v, want a storage error", err)
	}

	// The asset still points at its old, intact variant set
	stored, err := models.AssetByID(asset.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.KeyPrimary != asset.KeyPrimary || stored.KeyOriginal != asset.KeyOriginal {
		t.Errorf("keys changed after failed replace: %+v", stored)
	}
	for _, key := range stored.AllKeys() {
		if _, err := store.Get(key); err != nil {
			t.Errorf("blob %s: %v", key, err)
		}
	}
	// The half-uploaded new set was removed again
	if count := storedObjectCount(t, store); count != len(stored.AllKeys()) {
		t.Errorf("stored objects = %d, want %d", count, len(stored.AllKeys()))
	}
}

func Test_Replace_Errors(t *testing.T) {
	pipe, _ := testPipeline(t)
	if _, err := pipe.Replace(9999, &File{Name: "x.jpg", ContentType: "image/jpeg", Data: []byte("x")}); KindOf(err) != KindNotFound {
		t.Errorf("replace missing asset = %v, want a not-found error", err)
	}
	asset := ingestOneAsset(t, pipe, testJPEGFile(t, "photo.jpg", 50, 50))
	if _, err := pipe.Replace(asset.ID, &File{Name: "x.jpg", ContentType: "image/jpeg", Data: []byte("junk")}); KindOf(err) != KindValidation {
		t.Errorf("replace with corrupt data = %v, want a validation error", err)
	}
}
