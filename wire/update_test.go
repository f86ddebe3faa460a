package wire

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateRoundTrip(t *testing.T) {
	u := Update{
		PathAttributes: []PathAttribute{
			NewOrigin(OriginIGP),
			NewAsPathAttr(AsPath{Kind: AsSequence, AS: []uint16{64513}}),
			NewNextHop(netip.MustParseAddr("10.200.100.3")),
		},
		NLRI: []netip.Prefix{netip.MustParsePrefix("10.100.220.0/24")},
	}

	msg, err := Decode(u.Encode())
	require.NoError(t, err)
	require.Equal(t, TypeUpdate, msg.Type)
	require.Equal(t, u.NLRI, msg.Update.NLRI)
	require.Len(t, msg.Update.PathAttributes, len(u.PathAttributes))
	for i := range u.PathAttributes {
		require.True(t, u.PathAttributes[i].Equal(msg.Update.PathAttributes[i]))
	}
}

func TestUpdateHeaderLengthMatchesBytes(t *testing.T) {
	u := Update{
		PathAttributes: []PathAttribute{NewOrigin(OriginIGP)},
		NLRI:           []netip.Prefix{netip.MustParsePrefix("192.168.1.0/24")},
	}

	encoded := u.Encode()
	h, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), int(h.Length))
}

func TestUpdateWithWithdrawnRoutes(t *testing.T) {
	u := Update{
		WithdrawnRoutes: []netip.Prefix{netip.MustParsePrefix("172.16.0.0/16")},
	}

	msg, err := Decode(u.Encode())
	require.NoError(t, err)
	require.Equal(t, u.WithdrawnRoutes, msg.Update.WithdrawnRoutes)
	require.Empty(t, msg.Update.NLRI)
}

func TestUpdateEmptyNLRIEncodesZeroPathAttrLength(t *testing.T) {
	u := Update{}
	encoded := u.Encode()
	// withdrawn_len(2)=0 then path_attr_len(2)=0, right after the header.
	require.Equal(t, []byte{0, 0}, encoded[HeaderLen:HeaderLen+2])
	require.Equal(t, []byte{0, 0}, encoded[HeaderLen+2:HeaderLen+4])
}
