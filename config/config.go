package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	BIND_ADDRESS = "0.0.0.0:8080"
	MYSQL_DSN    = "" // MySQL will be used if this is set
	SQLITE_FILE  = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	DEBUG_MODE   = true

	// Blob store. If S3_BUCKET is empty, a local disk store rooted at
	// DISK_STORE_DIR is used instead (dev mode).
	S3_BUCKET            = ""
	S3_REGION            = "us-east-1"
	S3_ENDPOINT          = "" // for non-AWS endpoints (MinIO, etc)
	S3_ACCESS_KEY_ID     = ""
	S3_SECRET_ACCESS_KEY = ""
	S3_FORCE_PATH_STYLE  = false
	DISK_STORE_DIR       = "/tmp/gallery-store"

	// All asset objects live under this key prefix
	UPLOAD_PREFIX = "uploads/"

	MAX_UPLOAD_BYTES    = int64(100 * 1024 * 1024)
	LARGE_IMAGE_MAX_MP  = 25.0 // total-pixel budget for the "large" variant
	PRESIGN_TTL_SECONDS = 600

	// The reclamation sweep skips objects modified within the last
	// CLEANUP_STALE_HOURS - they may belong to an in-flight upload
	CLEANUP_STALE_HOURS      = 24
	CLEANUP_INTERVAL_MINUTES = 0 // 0 disables the background sweep

	SESSION_KEY = "this-must-be-secret"

	// Initial user, created on first start against an empty database
	ADMIN_EMAIL    = ""
	ADMIN_PASSWORD = ""
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_ACCESS_KEY_ID", &S3_ACCESS_KEY_ID)
	readEnvString("S3_SECRET_ACCESS_KEY", &S3_SECRET_ACCESS_KEY)
	readEnvBool("S3_FORCE_PATH_STYLE", &S3_FORCE_PATH_STYLE)
	readEnvString("DISK_STORE_DIR", &DISK_STORE_DIR)
	readEnvString("UPLOAD_PREFIX", &UPLOAD_PREFIX)
	readEnvInt64("MAX_UPLOAD_BYTES", &MAX_UPLOAD_BYTES)
	readEnvFloat("LARGE_IMAGE_MAX_MP", &LARGE_IMAGE_MAX_MP)
	readEnvInt("PRESIGN_TTL_SECONDS", &PRESIGN_TTL_SECONDS)
	readEnvInt("CLEANUP_STALE_HOURS", &CLEANUP_STALE_HOURS)
	readEnvInt("CLEANUP_INTERVAL_MINUTES", &CLEANUP_INTERVAL_MINUTES)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("ADMIN_EMAIL", &ADMIN_EMAIL)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
	if !strings.HasSuffix(UPLOAD_PREFIX, "/") {
		UPLOAD_PREFIX += "/"
	}
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt64(name string, value *int64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return
	}
	*value = f
}
