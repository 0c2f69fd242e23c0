// Package checksum provides the content digest used for duplicate detection
// and snapshot change tracking.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest maps content bytes to a fixed-size fingerprint. Equal input must
// produce equal output; the algorithm is otherwise the caller's choice.
type Digest func(data []byte) string

// SHA256 returns the hex-encoded SHA-256 digest of data.
func SHA256(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
