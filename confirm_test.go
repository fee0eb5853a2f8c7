package protoss

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func exchange(t *testing.T, pwI, pwR []byte) (msgI, msgR []byte, keyI, keyR SessionKey) {
	t.Helper()
	p := newTestProtocol(t)

	msgI, state, err := p.Init(pwI, idI, idJ)
	require.NoError(t, err)
	msgR, keyR, err = p.RspDer(pwR, idI, idJ, msgI)
	require.NoError(t, err)
	keyI, err = p.Der(state, msgR)
	require.NoError(t, err)
	return msgI, msgR, keyI, keyR
}

func TestConfirmation(t *testing.T) {
	msgI, msgR, keyI, keyR := exchange(t, []byte("password123"), []byte("password123"))

	initiator, err := NewConfirmation(keyI, msgI, msgR)
	require.NoError(t, err)
	responder, err := NewConfirmation(keyR, msgI, msgR)
	require.NoError(t, err)

	// Initiator -> responder
	tagI, err := initiator.InitiatorTag()
	require.NoError(t, err)
	require.NoError(t, responder.VerifyInitiator(tagI))

	// Responder -> initiator
	tagR, err := responder.ResponderTag()
	require.NoError(t, err)
	require.NoError(t, initiator.VerifyResponder(tagR))

	// Tags are direction specific
	require.NotEqual(t, tagI, tagR)
	require.ErrorIs(t, initiator.VerifyResponder(tagI), ErrInvalidConfirmation)
}

func TestConfirmationWrongPassword(t *testing.T) {
	msgI, msgR, keyI, keyR := exchange(t, []byte("password123"), []byte("wrongpassword"))

	initiator, err := NewConfirmation(keyI, msgI, msgR)
	require.NoError(t, err)
	responder, err := NewConfirmation(keyR, msgI, msgR)
	require.NoError(t, err)

	tagI, err := initiator.InitiatorTag()
	require.NoError(t, err)
	require.ErrorIs(t, responder.VerifyInitiator(tagI), ErrInvalidConfirmation)
}

func TestConfirmationInvalidInput(t *testing.T) {
	msgI, msgR, keyI, _ := exchange(t, []byte("pw"), []byte("pw"))

	_, err := NewConfirmation(keyI[:SessionKeyLen-1], msgI, msgR)
	require.ErrorIs(t, err, ErrInvalidInputLength)

	_, err = NewConfirmation(keyI, msgI[:PointLen-1], msgR)
	require.ErrorIs(t, err, ErrInvalidInputLength)
}

func TestSessionKeyZeroize(t *testing.T) {
	_, _, keyI, keyR := exchange(t, []byte("pw"), []byte("pw"))
	require.True(t, keyI.Equal(keyR))

	keyI.Zeroize()
	require.Equal(t, make([]byte, SessionKeyLen), []byte(keyI))
	require.False(t, keyI.Equal(keyR))
}
