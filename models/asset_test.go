package models

import (
	"reflect"
	"testing"

	"gallery/db"
)

func Test_Asset_KeyFallbacks(t *testing.T) {
	full := Asset{
		KeyPrimary:  "uploads/1-large.jpg",
		KeyThumb:    "uploads/1-thumb.jpg",
		KeyLarge:    "uploads/1-large.jpg",
		KeyOriginal: "uploads/1-original.png",
	}
	if full.ThumbKey() != "uploads/1-thumb.jpg" {
		t.Errorf("ThumbKey = %s", full.ThumbKey())
	}
	if full.OriginalKey() != "uploads/1-original.png" {
		t.Errorf("OriginalKey = %s", full.OriginalKey())
	}

	// Single-key rows serve every variant from key_primary
	legacy := Asset{KeyPrimary: "uploads/direct.jpg"}
	if legacy.ThumbKey() != "uploads/direct.jpg" ||
		legacy.LargeKey() != "uploads/direct.jpg" ||
		legacy.OriginalKey() != "uploads/direct.jpg" {
		t.Error("legacy row must fall back to key_primary for all variants")
	}
}

func Test_Asset_AllKeys(t *testing.T) {
	asset := Asset{
		KeyPrimary:  "uploads/1-large.jpg",
		KeyThumb:    "uploads/1-thumb.jpg",
		KeyLarge:    "uploads/1-large.jpg", // same as primary
		KeyOriginal: " /uploads/1-original.jpg ",
	}
	want := []string{"uploads/1-large.jpg", "uploads/1-thumb.jpg", "uploads/1-original.jpg"}
	if got := asset.AllKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllKeys = %v, want %v", got, want)
	}

	legacy := Asset{KeyPrimary: "uploads/direct.jpg"}
	if got := legacy.AllKeys(); !reflect.DeepEqual(got, []string{"uploads/direct.jpg"}) {
		t.Errorf("AllKeys = %v", got)
	}
}

func Test_AssetsByIDs(t *testing.T) {
	testInit(t)
	a := Asset{KeyPrimary: "uploads/a.jpg"}
	b := Asset{KeyPrimary: "uploads/b.jpg"}
	c := Asset{KeyPrimary: "uploads/c.jpg"}
	for _, asset := range []*Asset{&a, &b, &c} {
		if err := db.Instance.Create(asset).Error; err != nil {
			t.Fatal(err)
		}
	}
	// Request order wins, missing ids are skipped
	got, err := AssetsByIDs([]uint64{c.ID, 9999, a.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != c.ID || got[1].ID != a.ID {
		t.Errorf("AssetsByIDs returned wrong rows: %+v", got)
	}
}

func Test_ReferencedKeySet(t *testing.T) {
	testInit(t)
	err := db.Instance.Create(&Asset{
		KeyPrimary:  "uploads/1-large.jpg",
		KeyThumb:    "uploads/1-thumb.jpg",
		KeyLarge:    "uploads/1-large.jpg",
		KeyOriginal: "uploads/1-original.jpg",
	}).Error
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Instance.Create(&Asset{KeyPrimary: "uploads/direct.jpg"}).Error; err != nil {
		t.Fatal(err)
	}
	set, err := ReferencedKeySet()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"uploads/1-large.jpg", "uploads/1-thumb.jpg", "uploads/1-original.jpg", "uploads/direct.jpg"} {
		if !set[key] {
			t.Errorf("key %s missing from referenced set", key)
		}
	}
	if set["uploads/unrelated.jpg"] {
		t.Error("unreferenced key must not be in the set")
	}
}
