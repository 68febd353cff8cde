package socksdial

import (
	"io"
	"net/netip"
)

// Tunnel is an established CONNECT tunnel. It wraps the stream the handshake
// ran on without copying it; reads and writes pass straight through, and the
// tunnel's lifetime is exactly the stream's lifetime.
type Tunnel struct {
	stream io.ReadWriter
	bound  Addr
}

func (t *Tunnel) Read(p []byte) (int, error)  { return t.stream.Read(p) }
func (t *Tunnel) Write(p []byte) (int, error) { return t.stream.Write(p) }

// Close closes the underlying stream if it supports closing.
func (t *Tunnel) Close() error {
	if c, ok := t.stream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// BoundAddr returns the BND.ADDR and BND.PORT from the server reply.
// It is informational; most proxies report an unused address here.
func (t *Tunnel) BoundAddr() Addr { return t.bound }

// Connect negotiates a CONNECT tunnel to an already-resolved target over
// stream, which must be an open connection to a SOCKS5 proxy. The stream is
// owned by the call for its duration; on success it comes back wrapped as a
// Tunnel with no bytes consumed beyond the negotiation, on failure it is
// left in an unspecified state and the caller should close it.
func Connect(stream io.ReadWriter, target netip.AddrPort, auth Auth) (*Tunnel, error) {
	bound, err := handshake(stream, AddrFromAddrPort(target), auth)
	if err != nil {
		return nil, err
	}
	return &Tunnel{stream: stream, bound: bound}, nil
}

// ConnectWithDomain negotiates a CONNECT tunnel to domain:port, leaving name
// resolution to the proxy. A domain longer than 255 bytes fails before
// anything is written to the stream. Ownership rules match Connect.
func ConnectWithDomain(stream io.ReadWriter, domain string, port uint16, auth Auth) (*Tunnel, error) {
	target, err := DomainAddr(domain, port)
	if err != nil {
		return nil, err
	}
	bound, err := handshake(stream, target, auth)
	if err != nil {
		return nil, err
	}
	return &Tunnel{stream: stream, bound: bound}, nil
}
