package wire

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeRoundTrip(t *testing.T) {
	cases := []PathAttribute{
		NewOrigin(OriginIGP),
		NewOrigin(OriginEGP),
		NewOrigin(OriginIncomplete),
		NewAsPathAttr(AsPath{Kind: AsSequence}),
		NewAsPathAttr(AsPath{Kind: AsSequence, AS: []uint16{64513}}),
		NewAsPathAttr(AsPath{Kind: AsSequence, AS: []uint16{64513, 64512, 100}}),
		NewAsPathAttr(AsPath{Kind: AsSet, AS: []uint16{1, 2, 3}}),
		NewNextHop(netip.MustParseAddr("10.200.100.3")),
	}

	for _, want := range cases {
		encoded := EncodeAttribute(want)
		got, n, err := DecodeAttribute(encoded)
		require.NoError(t, err)
		require.Equal(t, len(encoded), n)
		require.True(t, want.Equal(got), "want=%+v got=%+v", want, got)
	}
}

func TestUnknownAttributePreservedVerbatim(t *testing.T) {
	raw := []byte{FlagOptional | FlagTransitive, 99, 3, 0xaa, 0xbb, 0xcc}
	got, n, err := DecodeAttribute(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, KindUnknown, got.Kind)
	require.Equal(t, raw, got.Raw)
	require.Equal(t, raw, EncodeAttribute(got))
}

func TestExtendedLengthToggling(t *testing.T) {
	longAS := make([]uint16, 200) // 200*2 = 400 bytes > 255
	for i := range longAS {
		longAS[i] = uint16(i + 1)
	}

	attr := NewAsPathAttr(AsPath{Kind: AsSequence, AS: longAS})
	encoded := EncodeAttribute(attr)

	require.NotZero(t, encoded[0]&FlagExtLength, "must set extended-length flag when value > 255 bytes")

	got, n, err := DecodeAttribute(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.True(t, attr.Equal(got))
}

func TestOriginAttributeFlagsAreWellKnownTransitive(t *testing.T) {
	encoded := EncodeAttribute(NewOrigin(OriginIGP))
	require.Equal(t, byte(FlagTransitive), encoded[0])
	require.Equal(t, byte(AttrTypeOrigin), encoded[1])
	require.Equal(t, byte(1), encoded[2])
	require.Equal(t, byte(OriginIGP), encoded[3])
}

func TestAsSetDuplicatesCollapsedOnParse(t *testing.T) {
	// segment_type=AS_SET, count=3, AS numbers 5,5,6
	value := []byte{byte(AsSet), 3, 0, 5, 0, 5, 0, 6}
	p, err := decodeAsPath(value)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint16{5, 6}, p.AS)
}

func TestAsPathPushed(t *testing.T) {
	seq := AsPath{Kind: AsSequence, AS: []uint16{64513}}
	pushed := seq.Pushed(64512)
	require.Equal(t, []uint16{64512, 64513}, pushed.AS)

	set := AsPath{Kind: AsSet, AS: []uint16{1, 2}}
	pushedSet := set.Pushed(3)
	require.ElementsMatch(t, []uint16{1, 2, 3}, pushedSet.AS)
}
