package socksdial

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strconv"
)

// Address types from RFC 1928 section 5.
const (
	atypIPv4   byte = 0x01
	atypDomain byte = 0x03
	atypIPv6   byte = 0x04
)

// A serialized domain name carries its length in one byte.
const maxDomainLen = 255

// Addr is a SOCKS5 destination or bound address: an IPv4 or IPv6 address,
// or a domain name left for the proxy to resolve, plus a port.
//
// The zero Addr is not valid; use AddrFromAddrPort or DomainAddr.
type Addr struct {
	atyp   byte
	ip     netip.Addr
	domain string
	port   uint16
}

// AddrFromAddrPort converts a resolved IP and port into an Addr.
// IPv4-mapped IPv6 addresses are unmapped so they serialize as 4 bytes.
func AddrFromAddrPort(ap netip.AddrPort) Addr {
	ip := ap.Addr().Unmap()
	atyp := atypIPv6
	if ip.Is4() {
		atyp = atypIPv4
	}
	return Addr{atyp: atyp, ip: ip, port: ap.Port()}
}

// DomainAddr builds an Addr naming a host for the proxy to resolve. It fails
// if the name cannot fit the one-byte length field, so a too-long name is
// caught before any byte reaches the stream.
func DomainAddr(domain string, port uint16) (Addr, error) {
	if len(domain) > maxDomainLen {
		return Addr{}, fmt.Errorf("socks5: domain name too long: %d bytes", len(domain))
	}
	return Addr{atyp: atypDomain, domain: domain, port: port}, nil
}

// IsDomain reports whether the address is a domain name.
func (a Addr) IsDomain() bool { return a.atyp == atypDomain }

// Domain returns the domain name, or "" for IP addresses.
func (a Addr) Domain() string { return a.domain }

// IP returns the IP address; it is the zero netip.Addr for domain names.
func (a Addr) IP() netip.Addr { return a.ip }

// Port returns the port.
func (a Addr) Port() uint16 { return a.port }

// String returns the address in host:port form.
func (a Addr) String() string {
	host := a.domain
	if a.atyp != atypDomain {
		host = a.ip.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(a.port)))
}

// appendTo appends the ATYP byte, the address bytes, and the big-endian port.
// Encoding never fails for an Addr built through a constructor.
func (a Addr) appendTo(buf []byte) []byte {
	buf = append(buf, a.atyp)
	switch a.atyp {
	case atypIPv4:
		v4 := a.ip.As4()
		buf = append(buf, v4[:]...)
	case atypIPv6:
		v6 := a.ip.As16()
		buf = append(buf, v6[:]...)
	case atypDomain:
		buf = append(buf, byte(len(a.domain)))
		buf = append(buf, a.domain...)
	}
	return binary.BigEndian.AppendUint16(buf, a.port)
}

// readAddr decodes the address and port that follow an already-consumed ATYP
// byte, reading exactly the number of bytes the ATYP implies. A truncated
// stream or an ATYP outside RFC 1928 is an error, never a default.
func readAddr(r io.Reader, atyp byte) (Addr, error) {
	var n int
	switch atyp {
	case atypIPv4:
		n = net.IPv4len
	case atypIPv6:
		n = net.IPv6len
	case atypDomain:
		var l [1]byte
		if _, err := io.ReadFull(r, l[:]); err != nil {
			return Addr{}, fmt.Errorf("read domain length: %w", err)
		}
		n = int(l[0])
	default:
		return Addr{}, fmt.Errorf("%w: address type 0x%02x", ErrProtocol, atyp)
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Addr{}, fmt.Errorf("read address: %w", err)
	}

	addr := Addr{atyp: atyp, port: binary.BigEndian.Uint16(buf[n:])}
	switch atyp {
	case atypIPv4:
		addr.ip = netip.AddrFrom4([4]byte(buf[:net.IPv4len]))
	case atypIPv6:
		addr.ip = netip.AddrFrom16([16]byte(buf[:net.IPv6len]))
	case atypDomain:
		addr.domain = string(buf[:n])
	}
	return addr, nil
}
