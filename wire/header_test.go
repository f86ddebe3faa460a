package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgilson/bgpd/bgperr"
)

func TestDecodeHeaderRejectsUnknownType(t *testing.T) {
	raw := make([]byte, HeaderLen)
	for i := 0; i < 16; i++ {
		raw[i] = 0xff
	}
	raw[16], raw[17] = 0, 19
	raw[18] = 3 // Notification — not in {1,2,4}

	_, err := DecodeHeader(raw)
	require.Error(t, err)
	require.ErrorIs(t, err, bgperr.ErrMalformedBytes)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 5))
	require.Error(t, err)
	require.ErrorIs(t, err, bgperr.ErrMalformedBytes)
}

func TestEncodeHeaderUsesAllOnesMarker(t *testing.T) {
	h := EncodeHeader(TypeKeepalive, 0)
	for i := 0; i < 16; i++ {
		require.Equal(t, byte(0xff), h[i])
	}
}
