package socksdial

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol indicates the peer violated the SOCKS5 wire protocol:
	// wrong version byte, unknown address type, or a malformed reply.
	ErrProtocol = errors.New("socks5: protocol error")

	// ErrNoAcceptableAuth indicates the server rejected every
	// authentication method the client offered.
	ErrNoAcceptableAuth = errors.New("socks5: no acceptable authentication method")

	// ErrAuthFailed indicates the username/password sub-negotiation was
	// rejected, or the server required it without credentials supplied.
	ErrAuthFailed = errors.New("socks5: authentication failed")
)

// ReplyStatus is the REP byte of a SOCKS5 server reply.
type ReplyStatus byte

const (
	StatusSucceeded               ReplyStatus = 0x00
	StatusGeneralFailure          ReplyStatus = 0x01
	StatusNotAllowed              ReplyStatus = 0x02
	StatusNetworkUnreachable      ReplyStatus = 0x03
	StatusHostUnreachable         ReplyStatus = 0x04
	StatusConnectionRefused       ReplyStatus = 0x05
	StatusTTLExpired              ReplyStatus = 0x06
	StatusCommandNotSupported     ReplyStatus = 0x07
	StatusAddressTypeNotSupported ReplyStatus = 0x08
)

func (s ReplyStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusGeneralFailure:
		return "general SOCKS server failure"
	case StatusNotAllowed:
		return "connection not allowed by ruleset"
	case StatusNetworkUnreachable:
		return "network unreachable"
	case StatusHostUnreachable:
		return "host unreachable"
	case StatusConnectionRefused:
		return "connection refused"
	case StatusTTLExpired:
		return "TTL expired"
	case StatusCommandNotSupported:
		return "command not supported"
	case StatusAddressTypeNotSupported:
		return "address type not supported"
	default:
		return fmt.Sprintf("unassigned status 0x%02x", byte(s))
	}
}

// ReplyError is returned when the server answers a CONNECT request with a
// non-zero REP byte. The handshake is over at that point; the caller decides
// whether to retry with a fresh stream.
type ReplyError struct {
	Status ReplyStatus
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("socks5: server reply: %s", e.Status)
}
