// Package protoss implements the Protoss augmented password-authenticated key
// exchange over ristretto255.
//
// Two parties sharing a password derive a 32-byte session key without sending
// the password. Authentication is implicit: equal keys mean equal passwords
// and identities. A mismatch is not reported as an error, so callers compare
// keys in constant time or rely on authenticated use of the key.
//
// Basic usage:
//
//	p, err := protoss.New(nil)
//	if err != nil {
//	    // handle error
//	}
//
//	// Initiator
//	msgI, state, err := p.Init(password, idI, idJ)
//
//	// Responder, after receiving msgI
//	msgR, keyR, err := p.RspDer(password, idI, idJ, msgI)
//
//	// Initiator, after receiving msgR
//	keyI, err := p.Der(state, msgR)
//
// A SessionState is single-use: Der consumes it and discards the ephemeral
// scalar. Retrying a failed exchange means calling Init again.
package protoss
