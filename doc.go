package socksdial

// Package socksdial implements the client side of the SOCKS5 protocol
// (RFC 1928) with optional username/password authentication (RFC 1929).
//
// The core entry points, Connect and ConnectWithDomain, run a single CONNECT
// negotiation over a caller-supplied byte stream and hand the stream back
// wrapped as an established Tunnel. The library never opens sockets for the
// core handshake and never retries; every failure is surfaced to the caller
// as a typed error.
//
// Dialer is a convenience layer that opens the TCP connection to the proxy
// itself and satisfies the usual DialContext shape, so the library can slot
// into code that expects a net.Dialer-like value.
