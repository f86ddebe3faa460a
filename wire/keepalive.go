package wire

// Keepalive is header-only — 19 bytes on the wire, type 4.
type Keepalive struct{}

// Encode renders the full 19-byte message.
func (Keepalive) Encode() []byte {
	return EncodeHeader(TypeKeepalive, 0)
}
