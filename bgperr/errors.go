// Package bgperr carries the error taxonomy of a minimal BGP-4 speaker:
// config parsing, malformed wire bytes, connection establishment,
// transport, and kernel routing-table failures. Each category is a
// sentinel that call sites wrap with fmt.Errorf("...: %w", ...) so
// callers can errors.Is/As against the category rather than a message.
package bgperr

import "errors"

var (
	// ErrConfigParse indicates a malformed CLI argument string. Fatal at
	// startup.
	ErrConfigParse = errors.New("config parse error")

	// ErrMalformedBytes indicates a received byte sequence does not
	// decode as a well-formed BGP message (bad header type, truncated
	// Update, invalid prefix length). Fatal for the peer task.
	ErrMalformedBytes = errors.New("malformed bgp message")

	// ErrConnectionEstablishment indicates TCP connect, or bind/accept,
	// failed. Fatal for the peer task.
	ErrConnectionEstablishment = errors.New("connection establishment failed")

	// ErrTransport indicates an I/O error on an already-established
	// stream. Fatal for the peer task.
	ErrTransport = errors.New("transport error")

	// ErrKernelRoutingTable indicates the external kernel adapter
	// rejected a lookup or an install. Install failures are logged and
	// swallowed — a single bad route must not wedge the session. A lookup
	// failure while building the LocRib is returned to the caller.
	ErrKernelRoutingTable = errors.New("kernel routing table error")
)

// MalformedHeader reports a BGP header with a type code outside
// {1=Open, 2=Update, 4=Keepalive}.
type MalformedHeader struct {
	Type byte
}

func (e *MalformedHeader) Error() string {
	return "malformed bgp header: unknown message type"
}

func (e *MalformedHeader) Unwrap() error {
	return ErrMalformedBytes
}
