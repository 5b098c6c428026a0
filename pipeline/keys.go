package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"gallery/config"

	"github.com/google/uuid"
)

type variantKeys struct {
	Thumb    string
	Large    string
	Original string
}

func (k variantKeys) all() []string {
	return []string{k.Thumb, k.Large, k.Original}
}

// placeholderKey is the transient key_primary of a provisional row. It is
// never written to the blob store; it only has to be globally unique so the
// unique index on key_primary holds during ingestion.
func placeholderKey() string {
	return "pending/" + uuid.NewString()
}

// ingestKeys derives the final storage keys from the assigned asset id.
func ingestKeys(assetID uint64, ext string) variantKeys {
	prefix := config.UPLOAD_PREFIX
	return variantKeys{
		Thumb:    fmt.Sprintf("%s%d-thumb.jpg", prefix, assetID),
		Large:    fmt.Sprintf("%s%d-large.jpg", prefix, assetID),
		Original: fmt.Sprintf("%s%d-original%s", prefix, assetID, ext),
	}
}

// mutationKeys carries a fresh random token so a rotate or replace never
// overwrites the keys a concurrent reader may be fetching.
func mutationKeys(assetID uint64, ext string) variantKeys {
	prefix := config.UPLOAD_PREFIX
	token := uuid.NewString()
	return variantKeys{
		Thumb:    fmt.Sprintf("%s%d-%s-thumb.jpg", prefix, assetID, token),
		Large:    fmt.Sprintf("%s%d-%s-large.jpg", prefix, assetID, token),
		Original: fmt.Sprintf("%s%d-%s-original%s", prefix, assetID, token, ext),
	}
}

// keyExt extracts a usable file extension from a file name or storage key.
func keyExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ".jpg"
	}
	return ext
}
