package canon

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex computes the SHA-256 hash of raw bytes and returns it as a
// lowercase hexadecimal string.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Hash canonicalizes a value and returns its SHA-256 hex digest.
// This is the primary hash function of the kernel: equivalent values
// always produce the same hash regardless of construction order.
func Hash(v Value) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return SHA256Hex(b), nil
}

// HashEncoder projects an Encoder and hashes the result.
func HashEncoder(e Encoder) (string, error) {
	return Hash(e.CanonicalValue())
}

// MustHash is like Hash but panics on error. Use only in tests or when
// inputs are known to be valid.
func MustHash(v Value) string {
	h, err := Hash(v)
	if err != nil {
		panic(err)
	}
	return h
}
