package wire

import (
	"fmt"

	"github.com/mgilson/bgpd/bgperr"
)

// Message type codes (RFC 4271 §4.1). Notification is not accepted by
// Decode — the error path is out of scope for this speaker.
const (
	TypeOpen      byte = 1
	TypeUpdate    byte = 2
	TypeKeepalive byte = 4
)

// HeaderLen is the fixed size of the BGP message header: a 16-byte
// marker, a 16-bit length and an 8-bit type.
const HeaderLen = 19

// Marker is always all-ones on send, per RFC 4271.
var Marker = [16]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// Header is the common 19-byte prefix of every BGP message.
type Header struct {
	Length uint16
	Type   byte
}

// EncodeHeader writes the 19-byte header for a message whose body is
// bodyLen bytes long (Length is the *total* message length, header
// included).
func EncodeHeader(mtype byte, bodyLen int) []byte {
	h := make([]byte, HeaderLen)
	copy(h[0:16], Marker[:])
	l := htons(uint16(HeaderLen + bodyLen))
	h[16], h[17] = l[0], l[1]
	h[18] = mtype
	return h
}

// DecodeHeader parses the 19-byte header. The marker is ignored on
// receive — only Length and Type are validated.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, fmt.Errorf("%w: short header (%d bytes)", bgperr.ErrMalformedBytes, len(b))
	}

	length := ntohs(b[16:18])
	mtype := b[18]

	switch mtype {
	case TypeOpen, TypeUpdate, TypeKeepalive:
	default:
		return Header{}, &bgperr.MalformedHeader{Type: mtype}
	}

	if length < HeaderLen {
		return Header{}, fmt.Errorf("%w: header length %d below minimum", bgperr.ErrMalformedBytes, length)
	}

	return Header{Length: length, Type: mtype}, nil
}
