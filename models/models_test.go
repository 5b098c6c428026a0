package models

import (
	"path/filepath"
	"testing"

	"gallery/db"
)

// testInit points the shared db handle at a throwaway SQLite file.
func testInit(t *testing.T) {
	t.Helper()
	db.Init("", filepath.Join(t.TempDir(), "test.db"))
	Init()
}
