package protoss

// Transcript holds the values bound into the session key
type Transcript struct {
	Z         []byte
	I         []byte
	R         []byte
	IdentityI []byte
	IdentityJ []byte
	V         []byte
}

// NewTranscript creates a new key-derivation transcript
func NewTranscript(z, i, r, identityI, identityJ, v []byte) *Transcript {
	return &Transcript{
		Z:         z,
		I:         i,
		R:         r,
		IdentityI: identityI,
		IdentityJ: identityJ,
		V:         v,
	}
}

// Parts returns the transcript fields in key-derivation order
//
//	Z || I || R || P_i || P_j || V
//
// Fields are not length-prefixed; the identities are bound by position only.
func (t *Transcript) Parts() [][]byte {
	return [][]byte{t.Z, t.I, t.R, t.IdentityI, t.IdentityJ, t.V}
}

// Bytes returns the concatenated transcript
func (t *Transcript) Bytes() []byte {
	var transcript []byte
	for _, p := range t.Parts() {
		transcript = append(transcript, p...)
	}
	return transcript
}

// deriveSessionKey computes K = H(Z || I || R || P_i || P_j || V)
func deriveSessionKey(g Group, t *Transcript) (SessionKey, error) {
	k, err := g.Digest(nil, SessionKeyLen, t.Parts()...)
	if err != nil {
		return nil, err
	}
	return SessionKey(k), nil
}
