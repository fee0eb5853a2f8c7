package protoss

import (
	"fmt"

	"github.com/BurakKTopal/ProtossPAKEBench/internal/crypto"
)

const (
	// ScalarLen is the size of an encoded scalar
	ScalarLen = crypto.ScalarLen

	// PointLen is the size of an encoded group element, and of I and R on the wire
	PointLen = crypto.PointLen

	// PasswordDigestLen is the size of the password digest fed to hash-to-point
	PasswordDigestLen = crypto.HashInputLen

	// SessionKeyLen is the size of a derived session key
	SessionKeyLen = crypto.SessionKeyLen
)

// Group is the group arithmetic a Protocol runs on
type Group = crypto.Group

// Options represents configuration options for the Protoss protocol
type Options struct {
	// Group arithmetic backend; the protocol is fixed to ristretto255 but the
	// backend is injectable
	Group Group
}

// DefaultOptions initializes a ristretto255 backend and returns options using it
func DefaultOptions() (*Options, error) {
	g, err := crypto.NewRistretto255()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize group: %w", err)
	}
	return &Options{Group: g}, nil
}
