package wire

import (
	"fmt"
	"net/netip"

	"github.com/mgilson/bgpd/bgperr"
)

// DefaultVersion and DefaultHoldTime are the values NewOpen fills in.
const (
	DefaultVersion  = 4
	DefaultHoldTime = 240
)

// Open is the BGP OPEN message (RFC 4271 §4.2).
type Open struct {
	Version            uint8
	MyAS               uint16
	HoldTime           uint16
	BGPIdentifier      netip.Addr
	OptionalParameters []byte // preserved verbatim, never interpreted
}

// NewOpen builds an Open with version=4, hold_time=240 and no optional
// parameters — the common case for a speaker with no capability
// negotiation.
func NewOpen(as uint16, id netip.Addr) Open {
	return Open{Version: DefaultVersion, MyAS: as, HoldTime: DefaultHoldTime, BGPIdentifier: id}
}

// Encode renders the full message (header included).
func (o Open) Encode() []byte {
	body := o.body()
	return append(EncodeHeader(TypeOpen, len(body)), body...)
}

func (o Open) body() []byte {
	as := htons(o.MyAS)
	ht := htons(o.HoldTime)
	id := o.BGPIdentifier.As4()

	body := make([]byte, 0, 10+len(o.OptionalParameters))
	body = append(body, o.Version, as[0], as[1], ht[0], ht[1], id[0], id[1], id[2], id[3])
	body = append(body, byte(len(o.OptionalParameters)))
	body = append(body, o.OptionalParameters...)
	return body
}

// DecodeOpen parses an Open message body (header already stripped).
func DecodeOpen(body []byte) (Open, error) {
	if len(body) < 10 {
		return Open{}, fmt.Errorf("%w: OPEN body too short", bgperr.ErrMalformedBytes)
	}

	var id [4]byte
	copy(id[:], body[5:9])

	optLen := int(body[9])
	if len(body) < 10+optLen {
		return Open{}, fmt.Errorf("%w: OPEN optional parameters truncated", bgperr.ErrMalformedBytes)
	}

	// No optional parameters decodes to nil, matching NewOpen, so a
	// constructed Open survives an encode/decode round trip unchanged.
	var params []byte
	if optLen > 0 {
		params = make([]byte, optLen)
		copy(params, body[10:10+optLen])
	}

	return Open{
		Version:            body[0],
		MyAS:               ntohs(body[1:3]),
		HoldTime:           ntohs(body[3:5]),
		BGPIdentifier:      netip.AddrFrom4(id),
		OptionalParameters: params,
	}, nil
}
