package utils

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

// Slugify converts a title to a URL-friendly slug.
// e.g. "My Cool Post!" -> "my-cool-post"
func Slugify(text string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, c := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
			lastDash = false
		case c == ' ' || c == '-' || c == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func RandSalt(saltSize int) string {
	b := make([]byte, saltSize)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
