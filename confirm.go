package protoss

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/BurakKTopal/ProtossPAKEBench/internal/crypto"
)

// ErrInvalidConfirmation indicates that a confirmation tag does not match
var ErrInvalidConfirmation = errors.New("invalid confirmation message")

const confirmationInfo = "ProtossConfirmationKeys"

// SessionKey is a derived shared secret
type SessionKey []byte

// Equal reports whether both keys are equal, in constant time
func (k SessionKey) Equal(other SessionKey) bool {
	return KeysEqual(k, other)
}

// Zeroize overwrites the key material
func (k SessionKey) Zeroize() {
	clear(k)
}

// KeysEqual compares two keys in constant time. A mismatch between the keys of
// two parties means their passwords or identities differ.
func KeysEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Confirmation produces and checks explicit key-confirmation tags for a
// finished exchange. Protoss authenticates implicitly; confirmation lets a
// party learn about a mismatch before using the key.
type Confirmation struct {
	keyI []byte // KcI
	keyR []byte // KcR
	tt   []byte // I || R
}

// NewConfirmation derives the confirmation keys from a session key and the
// two public messages
//
//	KcI || KcR = HKDF(K, nil, "ProtossConfirmationKeys", 64)
func NewConfirmation(k SessionKey, i, r []byte) (*Confirmation, error) {
	if len(k) != SessionKeyLen {
		return nil, fmt.Errorf("%w: session key must be %d bytes, got %d",
			ErrInvalidInputLength, SessionKeyLen, len(k))
	}
	if len(i) != PointLen || len(r) != PointLen {
		return nil, fmt.Errorf("%w: messages must be %d bytes", ErrInvalidInputLength, PointLen)
	}

	kc, err := crypto.DeriveKey(k, nil, []byte(confirmationInfo), 2*SessionKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive confirmation keys: %w", err)
	}

	tt := make([]byte, 0, 2*PointLen)
	tt = append(tt, i...)
	tt = append(tt, r...)

	return &Confirmation{
		keyI: kc[:SessionKeyLen],
		keyR: kc[SessionKeyLen:],
		tt:   tt,
	}, nil
}

// InitiatorTag returns cI = MAC(KcI, I || R)
func (c *Confirmation) InitiatorTag() ([]byte, error) {
	return crypto.MAC(c.keyI, c.tt)
}

// ResponderTag returns cR = MAC(KcR, I || R)
func (c *Confirmation) ResponderTag() ([]byte, error) {
	return crypto.MAC(c.keyR, c.tt)
}

// VerifyInitiator checks the initiator's tag on the responder side
func (c *Confirmation) VerifyInitiator(tag []byte) error {
	expected, err := c.InitiatorTag()
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(tag, expected) != 1 {
		return ErrInvalidConfirmation
	}
	return nil
}

// VerifyResponder checks the responder's tag on the initiator side
func (c *Confirmation) VerifyResponder(tag []byte) error {
	expected, err := c.ResponderTag()
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(tag, expected) != 1 {
		return ErrInvalidConfirmation
	}
	return nil
}

// Zeroize overwrites the confirmation keys
func (c *Confirmation) Zeroize() {
	clear(c.keyI)
	clear(c.keyR)
}
