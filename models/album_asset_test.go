package models

import (
	"reflect"
	"testing"

	"gallery/db"
)

func createTestAssets(t *testing.T, count int) []uint64 {
	t.Helper()
	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		asset := Asset{KeyPrimary: "uploads/" + string(rune('a'+i)) + ".jpg"}
		if err := db.Instance.Create(&asset).Error; err != nil {
			t.Fatal(err)
		}
		ids = append(ids, asset.ID)
	}
	return ids
}

func Test_AppendToAlbum(t *testing.T) {
	testInit(t)
	album := Album{Title: "Test", Slug: "test"}
	if err := db.Instance.Create(&album).Error; err != nil {
		t.Fatal(err)
	}
	ids := createTestAssets(t, 3)
	for _, id := range ids {
		if err := AppendToAlbum(album.ID, id); err != nil {
			t.Fatal(err)
		}
	}
	got, err := AlbumAssetIDs(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, ids) {
		t.Errorf("AlbumAssetIDs = %v, want append order %v", got, ids)
	}
}

func Test_ReorderAlbum(t *testing.T) {
	testInit(t)
	album := Album{Title: "Test", Slug: "test"}
	if err := db.Instance.Create(&album).Error; err != nil {
		t.Fatal(err)
	}
	ids := createTestAssets(t, 3)
	for _, id := range ids {
		if err := AppendToAlbum(album.ID, id); err != nil {
			t.Fatal(err)
		}
	}
	want := []uint64{ids[2], ids[0], ids[1]}
	if err := ReorderAlbum(album.ID, want); err != nil {
		t.Fatal(err)
	}
	got, err := AlbumAssetIDs(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AlbumAssetIDs after reorder = %v, want %v", got, want)
	}
}

func Test_RemoveFromAlbum(t *testing.T) {
	testInit(t)
	album := Album{Title: "Test", Slug: "test"}
	if err := db.Instance.Create(&album).Error; err != nil {
		t.Fatal(err)
	}
	ids := createTestAssets(t, 2)
	for _, id := range ids {
		if err := AppendToAlbum(album.ID, id); err != nil {
			t.Fatal(err)
		}
	}
	if err := RemoveFromAlbum(album.ID, ids[0]); err != nil {
		t.Fatal(err)
	}
	got, err := AlbumAssetIDs(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []uint64{ids[1]}) {
		t.Errorf("AlbumAssetIDs after remove = %v", got)
	}
	// Removing again is a no-op
	if err := RemoveFromAlbum(album.ID, ids[0]); err != nil {
		t.Errorf("second remove = %v, want nil", err)
	}
}
