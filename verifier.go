package protoss

import "fmt"

// VerifierPoint maps a password to its verifier point V. It depends on the
// password alone so both parties compute the same V independently.
func VerifierPoint(g Group, password []byte) ([]byte, error) {
	if g == nil {
		return nil, ErrBackendNotInitialized
	}

	digest, err := g.Digest(nil, PasswordDigestLen, password)
	if err != nil {
		return nil, fmt.Errorf("failed to digest password: %w", err)
	}
	defer clear(digest)

	v, err := g.HashToPoint(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to map password to point: %w", err)
	}
	return v, nil
}
