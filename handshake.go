package socksdial

import (
	"fmt"
	"io"
)

// negotiate drives the greeting and method selection, plus the RFC 1929
// sub-negotiation when the server picks username/password. The offered
// method list is fixed: no-auth alone, or no-auth plus username/password
// when credentials were supplied.
func negotiate(rw io.ReadWriter, auth Auth) error {
	methods := []byte{methodNone}
	if auth.enabled() {
		methods = append(methods, methodUsernamePassword)
	}

	if err := writeGreeting(rw, methods); err != nil {
		return err
	}

	method, err := readMethodSelection(rw)
	if err != nil {
		return err
	}

	switch method {
	case methodNone:
		return nil
	case methodUsernamePassword:
		if !auth.enabled() {
			return fmt.Errorf("%w: server requires username/password", ErrAuthFailed)
		}
		return authenticate(rw, auth)
	case methodNoAcceptableMethods:
		return ErrNoAcceptableAuth
	default:
		return fmt.Errorf("%w: server selected unoffered method 0x%02x", ErrProtocol, method)
	}
}

// handshake runs the whole CONNECT exchange in order: greeting, method
// selection, optional authentication, request, reply. It is a strict linear
// pipeline; the first failure terminates the attempt and nothing is retried.
// On success it returns the server's bound address and the stream is
// positioned at the first tunnel byte.
func handshake(rw io.ReadWriter, target Addr, auth Auth) (Addr, error) {
	if err := auth.validate(); err != nil {
		return Addr{}, err
	}
	if err := negotiate(rw, auth); err != nil {
		return Addr{}, err
	}
	if err := writeConnectRequest(rw, target); err != nil {
		return Addr{}, err
	}
	return readReply(rw)
}
