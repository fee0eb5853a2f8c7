package protoss

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurakKTopal/ProtossPAKEBench/internal/crypto"
)

var (
	// ErrInvalidInputLength indicates a scalar, point or hash input has the wrong size
	ErrInvalidInputLength = crypto.ErrInvalidInputLength

	// ErrGroupOperation indicates the group rejected an input, e.g. an invalid point encoding
	ErrGroupOperation = crypto.ErrGroupOperation

	// ErrBackendNotInitialized indicates the group backend was not initialized before use
	ErrBackendNotInitialized = crypto.ErrBackendNotInitialized

	// ErrInvalidState indicates a session state that was not produced by Init
	ErrInvalidState = errors.New("invalid session state")

	// ErrStateConsumed indicates Der was already run on this session state
	ErrStateConsumed = errors.New("session state already consumed")
)

// State represents the initiator's protocol state
type State int

const (
	// StateUninitialized is the zero state; Init has not run
	StateUninitialized State = iota

	// StateInitiated means I has been produced and Der may run once
	StateInitiated

	// StateCompleted means the session key was derived and x discarded
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitiated:
		return "initiated"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionState is the initiator's private context between Init and Der.
// It belongs to a single exchange and must not be shared.
type SessionState struct {
	state State

	// Ephemeral private exponent
	x []byte

	// Combined public point I = x*G + V
	i []byte

	// Identities of both parties
	identityI []byte
	identityJ []byte

	// Password verifier point
	v []byte
}

// State returns the current protocol state
func (s *SessionState) State() State {
	return s.state
}

// I returns the initiator's public message
func (s *SessionState) I() []byte {
	return bytes.Clone(s.i)
}

// IdentityI returns the initiator identity bound into the key
func (s *SessionState) IdentityI() []byte {
	return bytes.Clone(s.identityI)
}

// IdentityJ returns the responder identity bound into the key
func (s *SessionState) IdentityJ() []byte {
	return bytes.Clone(s.identityJ)
}

// Zeroize discards the ephemeral scalar. The state cannot be used afterwards.
func (s *SessionState) Zeroize() {
	clear(s.x)
	s.x = nil
	s.state = StateCompleted
}

// Protocol runs Protoss exchanges over a group backend. A Protocol holds no
// per-exchange state and may be shared between concurrent exchanges.
type Protocol struct {
	group Group
}

// New creates a Protocol. Nil options select DefaultOptions.
func New(options *Options) (*Protocol, error) {
	if options == nil {
		var err error
		options, err = DefaultOptions()
		if err != nil {
			return nil, err
		}
	}
	if options.Group == nil {
		return nil, ErrBackendNotInitialized
	}
	return &Protocol{group: options.Group}, nil
}

// Group returns the group backend of the protocol
func (p *Protocol) Group() Group {
	return p.group
}

// Init starts an exchange for the initiator. It returns the public message I
// and the state Der needs to finish the exchange.
func (p *Protocol) Init(password, identityI, identityJ []byte) ([]byte, *SessionState, error) {
	g := p.group

	// Choose random x
	x, err := g.RandomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate x: %w", err)
	}

	// Compute X = x*G
	X, err := g.ScalarBaseMult(x)
	if err != nil {
		clear(x)
		return nil, nil, fmt.Errorf("failed to compute X: %w", err)
	}

	// Compute V = H(pwd)
	v, err := VerifierPoint(g, password)
	if err != nil {
		clear(x)
		return nil, nil, err
	}

	// Compute I = X + V
	i, err := g.Add(X, v)
	if err != nil {
		clear(x)
		return nil, nil, fmt.Errorf("failed to compute I: %w", err)
	}

	state := &SessionState{
		state:     StateInitiated,
		x:         x,
		i:         i,
		identityI: bytes.Clone(identityI),
		identityJ: bytes.Clone(identityJ),
		v:         v,
	}

	return bytes.Clone(i), state, nil
}

// RspDer processes the initiator's message I for the responder. It returns
// the public message R and the responder's session key. The responder's
// ephemeral scalar does not outlive the call.
func (p *Protocol) RspDer(password, identityI, identityJ, i []byte) ([]byte, SessionKey, error) {
	if len(i) != PointLen {
		return nil, nil, fmt.Errorf("invalid initiator message: %w: expected %d bytes, got %d",
			ErrInvalidInputLength, PointLen, len(i))
	}

	g := p.group

	// Choose random y
	y, err := g.RandomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate y: %w", err)
	}
	defer clear(y)

	// Compute Y = y*G
	Y, err := g.ScalarBaseMult(y)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute Y: %w", err)
	}

	// Compute V = H(pwd)
	v, err := VerifierPoint(g, password)
	if err != nil {
		return nil, nil, err
	}

	// Compute R = Y + V
	r, err := g.Add(Y, v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute R: %w", err)
	}

	// Compute X' = I - V
	xPrime, err := g.Sub(i, v)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid initiator message: %w", err)
	}

	// Compute Z = y*X'
	z, err := g.ScalarMult(y, xPrime)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute Z: %w", err)
	}
	defer clear(z)

	// Compute K = H(Z, I, R, P_i, P_j, V)
	k, err := deriveSessionKey(g, NewTranscript(z, i, r, identityI, identityJ, v))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	return r, k, nil
}

// Der finishes the exchange for the initiator using the responder's message
// R. The verifier point is taken from state, so the password is not needed
// again. On success the state is consumed; on error it is left untouched.
func (p *Protocol) Der(state *SessionState, r []byte) (SessionKey, error) {
	if state == nil {
		return nil, ErrInvalidState
	}
	switch state.state {
	case StateInitiated:
	case StateCompleted:
		return nil, ErrStateConsumed
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, state.state)
	}
	if len(r) != PointLen {
		return nil, fmt.Errorf("invalid responder message: %w: expected %d bytes, got %d",
			ErrInvalidInputLength, PointLen, len(r))
	}

	g := p.group

	// Compute Y' = R - V
	yPrime, err := g.Sub(r, state.v)
	if err != nil {
		return nil, fmt.Errorf("invalid responder message: %w", err)
	}

	// Compute Z = x*Y'
	z, err := g.ScalarMult(state.x, yPrime)
	if err != nil {
		return nil, fmt.Errorf("failed to compute Z: %w", err)
	}
	defer clear(z)

	// Compute K = H(Z, I, R, P_i, P_j, V)
	k, err := deriveSessionKey(g, NewTranscript(z, state.i, r, state.identityI, state.identityJ, state.v))
	if err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	state.Zeroize()

	return k, nil
}
