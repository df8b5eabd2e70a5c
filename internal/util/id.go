package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random identifier carrying a short type prefix, e.g.
// "dos_3f2a…" for dossier snapshots. 128 random bits, no database
// coordination needed.
func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
