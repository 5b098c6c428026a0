package pipeline

import (
	"regexp"

	"gallery/config"
	"gallery/storage"
)

var allowedTypes = regexp.MustCompile(`(?i)^image/(jpeg|jpg|png|gif|webp|bmp)$`)

// Pipeline runs the asset lifecycle operations against a blob store and the
// shared metadata database.
type Pipeline struct {
	Blobs storage.ObjectStore
}

func New(blobs storage.ObjectStore) *Pipeline {
	return &Pipeline{Blobs: blobs}
}

// File is one uploaded image as received by a handler.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func validateFile(file *File) *Error {
	if len(file.Data) == 0 {
		return validationf("file %s is empty", file.Name)
	}
	if int64(len(file.Data)) > config.MAX_UPLOAD_BYTES {
		return validationf("file %s exceeds max size of %d bytes", file.Name, config.MAX_UPLOAD_BYTES)
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !allowedTypes.MatchString(contentType) {
		return validationf("file %s: unsupported type %s", file.Name, contentType)
	}
	return nil
}
