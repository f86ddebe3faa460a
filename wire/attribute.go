package wire

import (
	"fmt"
	"net/netip"

	"github.com/mgilson/bgpd/bgperr"
)

// Path attribute flag bits (RFC 4271 §4.3).
const (
	FlagOptional   = 0x80 // bit1
	FlagTransitive = 0x40 // bit2
	FlagPartial    = 0x20 // bit3
	FlagExtLength  = 0x10 // bit4
)

// Path attribute type codes this speaker understands. Everything else
// decodes to an AttrUnknown, preserved verbatim.
const (
	AttrTypeOrigin  = 1
	AttrTypeAsPath  = 2
	AttrTypeNextHop = 3 // RFC 4271's actual NEXT_HOP code
)

// Origin values (RFC 4271 §4.3).
type Origin uint8

const (
	OriginIGP        Origin = 0
	OriginEGP        Origin = 1
	OriginIncomplete Origin = 2
)

// AsPathKind distinguishes an AS_SET from an AS_SEQUENCE segment.
type AsPathKind uint8

const (
	AsSet      AsPathKind = 1
	AsSequence AsPathKind = 2
)

// AsPath is the decoded value of a single AS_PATH attribute. This
// speaker only ever emits a single segment (AS_SEQUENCE for eBGP
// sessions, an empty AS_SEQUENCE when locally originated), but Decode
// accepts any segment_type/segment_count RFC 4271 allows.
type AsPath struct {
	Kind AsPathKind
	AS   []uint16
}

// Contains reports whether as appears anywhere in the path, regardless
// of Kind — used for loop prevention (RFC 4271 §9.1.2).
func (p AsPath) Contains(as uint16) bool {
	for _, a := range p.AS {
		if a == as {
			return true
		}
	}
	return false
}

// Pushed returns a copy of p with as prepended as the most recent hop
// (AS_SEQUENCE) or added to the set (AS_SET), per the Update-Send
// rewrite rule.
func (p AsPath) Pushed(as uint16) AsPath {
	out := AsPath{Kind: p.Kind}
	switch p.Kind {
	case AsSet:
		seen := map[uint16]bool{as: true}
		out.AS = append(out.AS, as)
		for _, a := range p.AS {
			if !seen[a] {
				seen[a] = true
				out.AS = append(out.AS, a)
			}
		}
	default: // AsSequence
		out.Kind = AsSequence
		out.AS = append([]uint16{as}, p.AS...)
	}
	return out
}

func (p AsPath) equal(o AsPath) bool {
	if p.Kind != o.Kind || len(p.AS) != len(o.AS) {
		return false
	}
	for i := range p.AS {
		if p.AS[i] != o.AS[i] {
			return false
		}
	}
	return true
}

// AttrKind discriminates the PathAttribute union.
type AttrKind uint8

const (
	KindOrigin AttrKind = iota
	KindAsPath
	KindNextHop
	KindUnknown
)

// PathAttribute is a discriminated union over the attribute kinds this
// speaker knows about, plus a verbatim-preserved Unknown case. Only the
// field matching Kind is meaningful.
type PathAttribute struct {
	Kind    AttrKind
	Origin  Origin
	AsPath  AsPath
	NextHop netip.Addr
	Raw     []byte // Unknown: the whole attribute, flags/type/length/value included
}

func NewOrigin(o Origin) PathAttribute      { return PathAttribute{Kind: KindOrigin, Origin: o} }
func NewAsPathAttr(p AsPath) PathAttribute  { return PathAttribute{Kind: KindAsPath, AsPath: p} }
func NewNextHop(ip netip.Addr) PathAttribute {
	return PathAttribute{Kind: KindNextHop, NextHop: ip}
}
func NewUnknown(raw []byte) PathAttribute {
	dup := make([]byte, len(raw))
	copy(dup, raw)
	return PathAttribute{Kind: KindUnknown, Raw: dup}
}

// Equal compares two attributes by value — the basis of RibEntry
// identity, which spans both network and attribute content.
func (a PathAttribute) Equal(b PathAttribute) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindOrigin:
		return a.Origin == b.Origin
	case KindAsPath:
		return a.AsPath.equal(b.AsPath)
	case KindNextHop:
		return a.NextHop == b.NextHop
	default:
		if len(a.Raw) != len(b.Raw) {
			return false
		}
		for i := range a.Raw {
			if a.Raw[i] != b.Raw[i] {
				return false
			}
		}
		return true
	}
}

func attrFlags(length int, wellKnown bool) byte {
	var f byte
	if wellKnown {
		f |= FlagTransitive
	} else {
		f |= FlagOptional
	}
	if length > 255 {
		f |= FlagExtLength
	}
	return f
}

func encodeAttrHeader(flags, typeCode byte, length int) []byte {
	if flags&FlagExtLength != 0 {
		l := htons(uint16(length))
		return []byte{flags, typeCode, l[0], l[1]}
	}
	return []byte{flags, typeCode, byte(length)}
}

// EncodeAttribute renders a single path attribute, choosing regular or
// extended-length encoding based on the value's byte length — getting
// this wrong for a >255-byte value is a classic encoding bug.
func EncodeAttribute(a PathAttribute) []byte {
	switch a.Kind {
	case KindOrigin:
		value := []byte{byte(a.Origin)}
		return append(encodeAttrHeader(attrFlags(len(value), true), AttrTypeOrigin, len(value)), value...)

	case KindAsPath:
		value := encodeAsPath(a.AsPath)
		return append(encodeAttrHeader(attrFlags(len(value), true), AttrTypeAsPath, len(value)), value...)

	case KindNextHop:
		v4 := a.NextHop.As4()
		value := v4[:]
		return append(encodeAttrHeader(attrFlags(len(value), true), AttrTypeNextHop, len(value)), value...)

	default: // Unknown — preserved verbatim, header included
		out := make([]byte, len(a.Raw))
		copy(out, a.Raw)
		return out
	}
}

func encodeAsPath(p AsPath) []byte {
	if len(p.AS) == 0 {
		return nil
	}
	out := []byte{byte(p.Kind), byte(len(p.AS))}
	for _, as := range p.AS {
		b := htons(as)
		out = append(out, b[0], b[1])
	}
	return out
}

func decodeAsPath(b []byte) (AsPath, error) {
	if len(b) == 0 {
		return AsPath{Kind: AsSequence}, nil
	}
	if len(b) < 2 {
		return AsPath{}, fmt.Errorf("%w: truncated AS_PATH segment", bgperr.ErrMalformedBytes)
	}

	kind := AsPathKind(b[0])
	count := int(b[1])
	b = b[2:]

	if len(b) < count*2 {
		return AsPath{}, fmt.Errorf("%w: truncated AS_PATH segment value", bgperr.ErrMalformedBytes)
	}

	var as []uint16
	seen := map[uint16]bool{}
	for i := 0; i < count; i++ {
		v := ntohs(b[i*2 : i*2+2])
		if kind == AsSet {
			if seen[v] {
				continue // duplicates in AS_SET are collapsed on parse
			}
			seen[v] = true
		}
		as = append(as, v)
	}

	return AsPath{Kind: kind, AS: as}, nil
}

// DecodeAttribute parses one path attribute starting at b[0], returning
// the attribute and the number of bytes consumed.
func DecodeAttribute(b []byte) (PathAttribute, int, error) {
	if len(b) < 3 {
		return PathAttribute{}, 0, fmt.Errorf("%w: truncated attribute header", bgperr.ErrMalformedBytes)
	}

	flags := b[0]
	typeCode := b[1]

	extended := flags&FlagExtLength != 0
	hdrLen := 3
	var length int

	if extended {
		if len(b) < 4 {
			return PathAttribute{}, 0, fmt.Errorf("%w: truncated extended-length attribute header", bgperr.ErrMalformedBytes)
		}
		hdrLen = 4
		length = int(ntohs(b[2:4]))
	} else {
		length = int(b[2])
	}

	total := hdrLen + length
	if len(b) < total {
		return PathAttribute{}, 0, fmt.Errorf("%w: truncated attribute value", bgperr.ErrMalformedBytes)
	}

	value := b[hdrLen:total]

	switch typeCode {
	case AttrTypeOrigin:
		if len(value) != 1 {
			return PathAttribute{}, 0, fmt.Errorf("%w: ORIGIN value must be 1 byte", bgperr.ErrMalformedBytes)
		}
		return PathAttribute{Kind: KindOrigin, Origin: Origin(value[0])}, total, nil

	case AttrTypeAsPath:
		p, err := decodeAsPath(value)
		if err != nil {
			return PathAttribute{}, 0, err
		}
		return PathAttribute{Kind: KindAsPath, AsPath: p}, total, nil

	case AttrTypeNextHop:
		if len(value) != 4 {
			return PathAttribute{}, 0, fmt.Errorf("%w: NEXT_HOP value must be 4 bytes", bgperr.ErrMalformedBytes)
		}
		var a [4]byte
		copy(a[:], value)
		return PathAttribute{Kind: KindNextHop, NextHop: netip.AddrFrom4(a)}, total, nil

	default:
		return NewUnknown(b[:total]), total, nil
	}
}

// DecodeAttributes decodes a full path-attribute byte run.
func DecodeAttributes(b []byte) ([]PathAttribute, error) {
	var out []PathAttribute
	for len(b) > 0 {
		a, n, err := DecodeAttribute(b)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		b = b[n:]
	}
	return out, nil
}

// EncodeAttributes renders a full list of path attributes back-to-back,
// in the order given.
func EncodeAttributes(attrs []PathAttribute) []byte {
	var out []byte
	for _, a := range attrs {
		out = append(out, EncodeAttribute(a)...)
	}
	return out
}
