// Package verify computes a short, stable digest of a sieve result so two
// runs (say, threadCount=1 versus threadCount=8) can be compared without
// diffing raw output. Grounded on the sha256/hex result-hashing helper in
// strong_goldbach/helpers.go.
package verify

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 digest of a seven-entry counts
// vector (primes, twins, ..., septuplets).
func Hash(counts [7]uint64) string {
	var buf [7 * 8]byte
	for i, c := range counts {
		binary.BigEndian.PutUint64(buf[i*8:], c)
	}
	sum := sha256.Sum256(buf[:])
	return hex.EncodeToString(sum[:])
}
