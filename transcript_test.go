package protoss

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func fill(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestTranscriptLayout(t *testing.T) {
	tt := NewTranscript(
		fill(0x01, PointLen),
		fill(0x02, PointLen),
		fill(0x03, PointLen),
		[]byte{0x00},
		[]byte{0x01},
		fill(0x06, PointLen),
	)

	expected := "" +
		hex.EncodeToString(fill(0x01, PointLen)) +
		hex.EncodeToString(fill(0x02, PointLen)) +
		hex.EncodeToString(fill(0x03, PointLen)) +
		"00" + "01" +
		hex.EncodeToString(fill(0x06, PointLen))

	require.Equal(t, expected, hex.EncodeToString(tt.Bytes()))
	require.Len(t, tt.Bytes(), 4*PointLen+2)
}

func TestDeriveSessionKey(t *testing.T) {
	g := newTestProtocol(t).Group()
	tt := NewTranscript(
		fill(0x01, PointLen),
		fill(0x02, PointLen),
		fill(0x03, PointLen),
		[]byte("initiator"),
		[]byte("responder"),
		fill(0x06, PointLen),
	)

	k, err := deriveSessionKey(g, tt)
	require.NoError(t, err)

	expected := blake2b.Sum256(tt.Bytes())
	require.Equal(t, expected[:], []byte(k))
}

// Identities are bound by position only, so moving bytes across the
// identity boundary yields the same key
func TestTranscriptIdentityBoundary(t *testing.T) {
	g := newTestProtocol(t).Group()
	z, i, r, v := fill(1, PointLen), fill(2, PointLen), fill(3, PointLen), fill(4, PointLen)

	k1, err := deriveSessionKey(g, NewTranscript(z, i, r, []byte("ab"), []byte("c"), v))
	require.NoError(t, err)
	k2, err := deriveSessionKey(g, NewTranscript(z, i, r, []byte("a"), []byte("bc"), v))
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	k3, err := deriveSessionKey(g, NewTranscript(z, i, r, []byte("c"), []byte("ab"), v))
	require.NoError(t, err)
	require.NotEqual(t, k1, k3)
}
