package wire

import (
	"fmt"
	"net/netip"

	"github.com/mgilson/bgpd/bgperr"
)

// EncodeNLRI renders a single IPv4 prefix as one prefix-length byte
// followed by ⌈prefix/8⌉ network-order address bytes, trailing host
// bytes omitted. A /0 prefix emits no address bytes at all.
func EncodeNLRI(p netip.Prefix) []byte {
	bits := p.Bits()
	nbytes := (bits + 7) / 8
	addr := p.Addr().As4()

	out := make([]byte, 1+nbytes)
	out[0] = byte(bits)
	copy(out[1:], addr[:nbytes])
	return out
}

// DecodeNLRI consumes one prefix-length-prefixed entry from b, returning
// the parsed prefix and the number of bytes consumed.
func DecodeNLRI(b []byte) (netip.Prefix, int, error) {
	if len(b) < 1 {
		return netip.Prefix{}, 0, fmt.Errorf("%w: empty NLRI entry", bgperr.ErrMalformedBytes)
	}

	bits := int(b[0])
	if bits < 0 || bits > 32 {
		return netip.Prefix{}, 0, fmt.Errorf("%w: invalid prefix length %d", bgperr.ErrMalformedBytes, bits)
	}

	nbytes := (bits + 7) / 8
	if len(b) < 1+nbytes {
		return netip.Prefix{}, 0, fmt.Errorf("%w: truncated NLRI entry", bgperr.ErrMalformedBytes)
	}

	var addr [4]byte
	copy(addr[:nbytes], b[1:1+nbytes])

	return netip.PrefixFrom(netip.AddrFrom4(addr), bits), 1 + nbytes, nil
}

// DecodeNLRIList decodes a byte run (withdrawn-routes or NLRI tail) into
// a sequence of prefixes, consuming the segment fully.
func DecodeNLRIList(b []byte) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for len(b) > 0 {
		p, n, err := DecodeNLRI(b)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		b = b[n:]
	}
	return out, nil
}

// EncodeNLRIList renders a sequence of prefixes back-to-back.
func EncodeNLRIList(ps []netip.Prefix) []byte {
	var out []byte
	for _, p := range ps {
		out = append(out, EncodeNLRI(p)...)
	}
	return out
}
