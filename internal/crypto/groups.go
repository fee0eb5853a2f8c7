package crypto

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"sync"

	"github.com/gtank/ristretto255"
	"go.dedis.ch/kyber/v4/util/random"
)

const (
	// ScalarLen is the encoded size of a ristretto255 scalar
	ScalarLen = 32

	// PointLen is the encoded size of a ristretto255 element
	PointLen = 32

	// HashInputLen is the size of the uniform input to HashToPoint
	HashInputLen = 64

	// SessionKeyLen is the size of a derived session key
	SessionKeyLen = 32
)

var (
	// ErrInvalidInputLength indicates a buffer does not have its fixed size
	ErrInvalidInputLength = errors.New("invalid input length")

	// ErrGroupOperation indicates the group rejected a correctly sized input
	ErrGroupOperation = errors.New("group operation failed")

	// ErrBackendNotInitialized indicates the group backend was used before NewRistretto255
	ErrBackendNotInitialized = errors.New("group backend not initialized")
)

// Group is the arithmetic a Protoss exchange needs from its prime-order group.
// All values cross this boundary as fixed-length encodings.
type Group interface {
	String() string

	RandomScalar() ([]byte, error)
	ScalarBaseMult(s []byte) ([]byte, error)
	ScalarMult(s, p []byte) ([]byte, error)

	Add(a, b []byte) ([]byte, error)
	Sub(a, b []byte) ([]byte, error)

	HashToPoint(h []byte) ([]byte, error)
	Digest(key []byte, outLen int, input ...[]byte) ([]byte, error)
}

// Option configures a Ristretto255 backend
type Option func(*Ristretto255)

// WithRandom sets the stream random scalars are drawn from
func WithRandom(stream cipher.Stream) Option {
	return func(r *Ristretto255) {
		r.rand = stream
	}
}

// Ristretto255 implements Group over ristretto255. The zero value is not
// usable; obtain one from NewRistretto255.
type Ristretto255 struct {
	mu          sync.Mutex
	rand        cipher.Stream
	initialized bool
}

// NewRistretto255 initializes a ristretto255 backend
func NewRistretto255(opts ...Option) (*Ristretto255, error) {
	r := &Ristretto255{}
	for _, opt := range opts {
		opt(r)
	}
	if r.rand == nil {
		r.rand = random.New()
	}

	// The base point must round-trip before the handle is handed out.
	gen := ristretto255.NewGeneratorElement().Bytes()
	if _, err := ristretto255.NewIdentityElement().SetCanonicalBytes(gen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendNotInitialized, err)
	}

	r.initialized = true
	return r, nil
}

func (r *Ristretto255) String() string {
	return "ristretto255"
}

func (r *Ristretto255) ready() error {
	if r == nil || !r.initialized {
		return ErrBackendNotInitialized
	}
	return nil
}

// RandomScalar returns a uniformly random non-zero scalar
func (r *Ristretto255) RandomScalar() ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var wide [HashInputLen]byte
	zero := ristretto255.NewScalar()
	for {
		r.mu.Lock()
		random.Bytes(wide[:], r.rand)
		r.mu.Unlock()

		s, err := ristretto255.NewScalar().SetUniformBytes(wide[:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGroupOperation, err)
		}
		if s.Equal(zero) == 1 {
			continue
		}
		clear(wide[:])
		return s.Bytes(), nil
	}
}

// ScalarBaseMult computes s*G
func (r *Ristretto255) ScalarBaseMult(s []byte) ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	sc, err := decodeScalar(s)
	if err != nil {
		return nil, err
	}
	return ristretto255.NewIdentityElement().ScalarBaseMult(sc).Bytes(), nil
}

// ScalarMult computes s*P
func (r *Ristretto255) ScalarMult(s, p []byte) ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	sc, err := decodeScalar(s)
	if err != nil {
		return nil, err
	}
	pt, err := decodePoint(p)
	if err != nil {
		return nil, err
	}
	return ristretto255.NewIdentityElement().ScalarMult(sc, pt).Bytes(), nil
}

// Add computes a+b
func (r *Ristretto255) Add(a, b []byte) ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	pa, pb, err := decodePair(a, b)
	if err != nil {
		return nil, err
	}
	return ristretto255.NewIdentityElement().Add(pa, pb).Bytes(), nil
}

// Sub computes a-b
func (r *Ristretto255) Sub(a, b []byte) ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	pa, pb, err := decodePair(a, b)
	if err != nil {
		return nil, err
	}
	return ristretto255.NewIdentityElement().Subtract(pa, pb).Bytes(), nil
}

// HashToPoint maps 64 uniform bytes to a group element
func (r *Ristretto255) HashToPoint(h []byte) ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if len(h) != HashInputLen {
		return nil, fmt.Errorf("%w: hash input must be %d bytes, got %d",
			ErrInvalidInputLength, HashInputLen, len(h))
	}
	p, err := ristretto255.NewIdentityElement().SetUniformBytes(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupOperation, err)
	}
	return p.Bytes(), nil
}

// Digest hashes the inputs in order with BLAKE2b, keyed if key is not empty
func (r *Ristretto255) Digest(key []byte, outLen int, input ...[]byte) ([]byte, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return Digest(key, outLen, input...)
}

func decodeScalar(b []byte) (*ristretto255.Scalar, error) {
	if len(b) != ScalarLen {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d",
			ErrInvalidInputLength, ScalarLen, len(b))
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: non-canonical scalar", ErrGroupOperation)
	}
	if s.Equal(ristretto255.NewScalar()) == 1 {
		return nil, fmt.Errorf("%w: zero scalar", ErrGroupOperation)
	}
	return s, nil
}

func decodePoint(b []byte) (*ristretto255.Element, error) {
	if len(b) != PointLen {
		return nil, fmt.Errorf("%w: point must be %d bytes, got %d",
			ErrInvalidInputLength, PointLen, len(b))
	}
	p, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid point encoding", ErrGroupOperation)
	}
	if p.Equal(ristretto255.NewIdentityElement()) == 1 {
		return nil, fmt.Errorf("%w: identity element", ErrGroupOperation)
	}
	return p, nil
}

func decodePair(a, b []byte) (*ristretto255.Element, *ristretto255.Element, error) {
	pa, err := decodePoint(a)
	if err != nil {
		return nil, nil, err
	}
	pb, err := decodePoint(b)
	if err != nil {
		return nil, nil, err
	}
	return pa, pb, nil
}
