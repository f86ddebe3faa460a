// Package transport owns the one TCP stream a Peer speaks BGP over: it
// frames inbound bytes into whole messages and writes outbound ones.
// Connection is dialed with an explicit local address and read with an
// io.ReadFull-style header/body split, but driven synchronously from
// GetMessage rather than a background reader goroutine, matching the
// rest of this speaker's one-message-per-call-per-peer model.
package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/mgilson/bgpd/bgperr"
	"github.com/mgilson/bgpd/wire"

	"net/netip"
)

// Port is the well-known BGP port.
const Port = 179

// Mode selects which side initiates the TCP connection.
type Mode uint8

const (
	Active Mode = iota
	Passive
)

// Config parameterizes Connect. LocalIP is the source address dialed
// from (Active) or bound and listened on (Passive); RemoteIP is the
// peer dialed (Active, ignored for Passive).
type Config struct {
	Mode     Mode
	LocalIP  netip.Addr
	RemoteIP netip.Addr
}

// Connection owns one TCP stream and a growable receive buffer.
type Connection struct {
	conn net.Conn
	rx   []byte
}

// Connect establishes the session's one TCP stream: dials the remote in
// Active mode, or binds and accepts the first incoming connection in
// Passive mode. Both variants block until the connection is up, an
// error occurs, or ctx is cancelled.
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	switch cfg.Mode {
	case Active:
		return connectActive(ctx, cfg)
	case Passive:
		return connectPassive(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown connection mode", bgperr.ErrConnectionEstablishment)
	}
}

func connectActive(ctx context.Context, cfg Config) (*Connection, error) {
	dialer := net.Dialer{Timeout: 10 * time.Second}

	if cfg.LocalIP.IsValid() && !cfg.LocalIP.IsUnspecified() {
		dialer.LocalAddr = &net.TCPAddr{IP: net.IP(cfg.LocalIP.AsSlice())}
	}

	addr := net.JoinHostPort(cfg.RemoteIP.String(), strconv.Itoa(Port))

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", bgperr.ErrConnectionEstablishment, addr, err)
	}

	return &Connection{conn: conn}, nil
}

func connectPassive(ctx context.Context, cfg Config) (*Connection, error) {
	var lc net.ListenConfig

	addr := net.JoinHostPort(cfg.LocalIP.String(), strconv.Itoa(Port))

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %v", bgperr.ErrConnectionEstablishment, addr, err)
	}
	defer ln.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-done:
		}
	}()

	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("%w: accept on %s: %v", bgperr.ErrConnectionEstablishment, addr, err)
	}

	return &Connection{conn: conn}, nil
}

// Close releases the underlying socket.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// Send serializes and writes all bytes of one message.
func (c *Connection) Send(msg wire.Message) error {
	if _, err := c.conn.Write(msg.Encode()); err != nil {
		return fmt.Errorf("%w: %v", bgperr.ErrTransport, err)
	}
	return nil
}

// GetMessage returns the next full message if the receive buffer
// already holds one; otherwise it performs one non-blocking drain of
// the socket (reading until the read would block) and tries again. A
// nil message with a nil error means fewer than a full message is
// available right now — not an error.
func (c *Connection) GetMessage() (*wire.Message, error) {
	if msg, ok, err := c.extract(); err != nil || ok {
		return msg, err
	}

	if err := c.drain(); err != nil {
		return nil, fmt.Errorf("%w: %v", bgperr.ErrTransport, err)
	}

	msg, _, err := c.extract()
	return msg, err
}

// extract splits one complete message off the front of rx: it parses
// the 19-byte header once at least that many bytes are buffered, then
// waits for Header.Length total bytes before decoding the body.
func (c *Connection) extract() (*wire.Message, bool, error) {
	if len(c.rx) < wire.HeaderLen {
		return nil, false, nil
	}

	h, err := wire.DecodeHeader(c.rx)
	if err != nil {
		return nil, false, err
	}

	if len(c.rx) < int(h.Length) {
		return nil, false, nil
	}

	raw := c.rx[:h.Length]
	msg, err := wire.Decode(raw)
	if err != nil {
		return nil, false, err
	}

	c.rx = c.rx[h.Length:]
	return &msg, true, nil
}

// drain performs one near-non-blocking pass over the socket: it sets a
// read deadline one millisecond ahead, so a read that would otherwise
// block instead times out almost at once, and loops only while data is
// actually available. (A deadline already in the past would make every
// Read time out before reading any buffered bytes.)
func (c *Connection) drain() error {
	if err := c.conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return err
	}
	defer c.conn.SetReadDeadline(time.Time{})

	buf := make([]byte, 4096)

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.rx = append(c.rx, buf[:n]...)
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil // drained everything available right now
			}
			return err
		}
		if n == 0 {
			return nil
		}
	}
}
