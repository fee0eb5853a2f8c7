package crypto

import (
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

// Digest hashes the inputs in order with BLAKE2b producing outLen bytes.
// A non-empty key selects keyed BLAKE2b.
func Digest(key []byte, outLen int, input ...[]byte) ([]byte, error) {
	h, err := blake2b.New(outLen, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputLength, err)
	}
	for _, in := range input {
		h.Write(in)
	}
	return h.Sum(nil), nil
}

// DeriveKey implements HKDF (RFC 5869) over BLAKE2b-256
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	out := make([]byte, length)
	r := hkdf.New(newBlake2b256, secret, salt, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return out, nil
}

// MAC computes keyed BLAKE2b-256 over message
func MAC(key, message []byte) ([]byte, error) {
	return Digest(key, blake2b.Size256, message)
}

func newBlake2b256() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}
