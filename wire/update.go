package wire

import (
	"fmt"
	"net/netip"

	"github.com/mgilson/bgpd/bgperr"
)

// Update is the BGP UPDATE message (RFC 4271 §4.3). This speaker never
// constructs a non-empty WithdrawnRoutes (route withdrawal is a
// Non-goal), but Decode accepts one for wire compatibility.
type Update struct {
	WithdrawnRoutes []netip.Prefix
	PathAttributes  []PathAttribute
	NLRI            []netip.Prefix
}

// Encode renders the full message (header included), in wire order:
//
//	header | withdrawn_len(2) | withdrawn | pathattr_len(2) | pathattrs | nlri
func (u Update) Encode() []byte {
	withdrawn := EncodeNLRIList(u.WithdrawnRoutes)
	attrs := EncodeAttributes(u.PathAttributes)
	nlri := EncodeNLRIList(u.NLRI)

	body := make([]byte, 0, 4+len(withdrawn)+len(attrs)+len(nlri))

	wl := htons(uint16(len(withdrawn)))
	body = append(body, wl[0], wl[1])
	body = append(body, withdrawn...)

	al := htons(uint16(len(attrs)))
	body = append(body, al[0], al[1])
	body = append(body, attrs...)
	body = append(body, nlri...)

	return append(EncodeHeader(TypeUpdate, len(body)), body...)
}

// DecodeUpdate parses an Update message body (header already stripped).
func DecodeUpdate(body []byte) (Update, error) {
	if len(body) < 2 {
		return Update{}, fmt.Errorf("%w: UPDATE body too short for withdrawn-routes length", bgperr.ErrMalformedBytes)
	}

	wlen := int(ntohs(body[0:2]))
	body = body[2:]
	if len(body) < wlen {
		return Update{}, fmt.Errorf("%w: UPDATE withdrawn routes truncated", bgperr.ErrMalformedBytes)
	}

	withdrawn, err := DecodeNLRIList(body[:wlen])
	if err != nil {
		return Update{}, err
	}
	body = body[wlen:]

	if len(body) < 2 {
		return Update{}, fmt.Errorf("%w: UPDATE body too short for path-attribute length", bgperr.ErrMalformedBytes)
	}

	alen := int(ntohs(body[0:2]))
	body = body[2:]
	if len(body) < alen {
		return Update{}, fmt.Errorf("%w: UPDATE path attributes truncated", bgperr.ErrMalformedBytes)
	}

	attrs, err := DecodeAttributes(body[:alen])
	if err != nil {
		return Update{}, err
	}
	body = body[alen:]

	nlri, err := DecodeNLRIList(body)
	if err != nil {
		return Update{}, err
	}

	return Update{WithdrawnRoutes: withdrawn, PathAttributes: attrs, NLRI: nlri}, nil
}
