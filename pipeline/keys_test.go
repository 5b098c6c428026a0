package pipeline

import (
	"strings"
	"testing"
)

func Test_keyExt(t *testing.T) {
	type args struct {
		name string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			"jpeg",
			args{"photo.JPG"},
			".jpg",
		},
		{
			"png",
			args{"some/dir/image.png"},
			".png",
		},
		{
			"no extension",
			args{"photo"},
			".jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyExt(tt.args.name); got != tt.want {
				t.Errorf("keyExt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_ingestKeys(t *testing.T) {
	keys := ingestKeys(42, ".png")
	if keys.Thumb != "uploads/42-thumb.jpg" {
		t.Errorf("thumb = %s", keys.Thumb)
	}
	if keys.Large != "uploads/42-large.jpg" {
		t.Errorf("large = %s", keys.Large)
	}
	if keys.Original != "uploads/42-original.png" {
		t.Errorf("original = %s", keys.Original)
	}
}

func Test_mutationKeys(t *testing.T) {
	first := mutationKeys(42, ".jpg")
	second := mutationKeys(42, ".jpg")
	if first.Large == second.Large {
		t.Error("mutation keys must be unique per call")
	}
	for _, key := range first.all() {
		if !strings.HasPrefix(key, "uploads/42-") {
			t.Errorf("key %s not under the asset's prefix", key)
		}
	}
}

func Test_placeholderKey(t *testing.T) {
	key := placeholderKey()
	if !strings.HasPrefix(key, "pending/") {
		t.Errorf("placeholder = %s", key)
	}
	if key == placeholderKey() {
		t.Error("placeholders must be unique")
	}
}
