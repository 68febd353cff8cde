package socksdial

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// Dialer opens outbound TCP connections through a SOCKS5 proxy. It covers
// the common case where the caller wants the library to dial the proxy too;
// callers that manage their own streams use Connect or ConnectWithDomain
// directly.
type Dialer struct {
	cfg       Config
	proxyAddr string
	auth      Auth
}

// NewDialer constructs a Dialer for the proxy at proxyAddr (host:port).
func NewDialer(cfg Config, proxyAddr string, auth Auth) *Dialer {
	return &Dialer{cfg: cfg, proxyAddr: proxyAddr, auth: auth}
}

// DialContext connects to the proxy, negotiates a CONNECT tunnel to address,
// and returns the established connection. An IP-literal host is sent to the
// proxy as-is; a hostname is left for the proxy to resolve. Only "tcp" is
// supported.
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if network != "tcp" {
		return nil, fmt.Errorf("socks5 proxy dial %s %s: unsupported network", network, address)
	}

	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy dial %s: %w", address, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy dial %s: invalid port: %w", address, err)
	}

	dd := net.Dialer{Timeout: d.cfg.DialTimeout}
	conn, err := dd.DialContext(ctx, "tcp", d.proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy connect %s: %w", d.proxyAddr, err)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAliveConfig(d.cfg.KeepAlive)
	}

	if ip, perr := netip.ParseAddr(host); perr == nil {
		_, err = Connect(conn, netip.AddrPortFrom(ip, uint16(port)), d.auth)
	} else {
		_, err = ConnectWithDomain(conn, host, uint16(port), d.auth)
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("socks5 proxy dial %s: %w", address, err)
	}

	return conn, nil
}
