package wire

import "github.com/mgilson/bgpd/bgperr"

// Message is the decoded form of one full BGP message, tagged by Type.
// Only the field matching Type is meaningful.
type Message struct {
	Type      byte
	Open      Open
	Keepalive Keepalive
	Update    Update
}

// Decode parses one complete message — header and body. Type codes
// outside {Open, Update, Keepalive} cannot reach here: DecodeHeader
// already rejected them.
func Decode(raw []byte) (Message, error) {
	h, err := DecodeHeader(raw)
	if err != nil {
		return Message{}, err
	}

	body := raw[HeaderLen:h.Length]

	switch h.Type {
	case TypeOpen:
		o, err := DecodeOpen(body)
		if err != nil {
			return Message{}, err
		}
		return Message{Type: TypeOpen, Open: o}, nil

	case TypeKeepalive:
		return Message{Type: TypeKeepalive}, nil

	case TypeUpdate:
		u, err := DecodeUpdate(body)
		if err != nil {
			return Message{}, err
		}
		return Message{Type: TypeUpdate, Update: u}, nil

	default:
		return Message{}, &bgperr.MalformedHeader{Type: h.Type}
	}
}

// Encode renders the message this Message wraps.
func (m Message) Encode() []byte {
	switch m.Type {
	case TypeOpen:
		return m.Open.Encode()
	case TypeUpdate:
		return m.Update.Encode()
	default:
		return m.Keepalive.Encode()
	}
}
