package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the hex SHA256 of a request payload.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
