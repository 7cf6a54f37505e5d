// Package ident generates identifiers for documents, pages, annotations,
// raster layers, and history patches.
package ident

import (
	"crypto/rand"
	"fmt"
	"time"
)

const suffixBytes = 5

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// New returns an identifier of the form "{prefix}-{unix-millis}-{suffix}"
// where suffix is a short random string. Two calls in the same millisecond
// differ in the suffix; collisions are treated as negligible for a
// single-process tool.
func New(prefix string) string {
	buf := make([]byte, suffixBytes)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), buf)
}
