package socksdial

import (
	"fmt"
	"io"
)

// RFC 1929 username/password sub-negotiation version.
const authVersion byte = 0x01

const authStatusSuccess byte = 0x00

// Auth configures optional username/password authentication. The zero value
// offers no-authentication only.
type Auth struct {
	Username string
	Password string
}

func (a Auth) enabled() bool {
	return a.Username != "" || a.Password != ""
}

// validate enforces the RFC 1929 limits before anything is written: both
// fields must be 1 to 255 bytes. An empty field would still encode, but the
// server answer to it is ambiguous, so it is rejected here.
func (a Auth) validate() error {
	if !a.enabled() {
		return nil
	}
	if n := len(a.Username); n == 0 || n > 255 {
		return fmt.Errorf("socks5: username length %d not in [1,255]", n)
	}
	if n := len(a.Password); n == 0 || n > 255 {
		return fmt.Errorf("socks5: password length %d not in [1,255]", n)
	}
	return nil
}

// authenticate runs the RFC 1929 sub-negotiation after the server selected
// username/password. It is invoked at most once per handshake and never
// retried.
func authenticate(rw io.ReadWriter, auth Auth) error {
	buf := make([]byte, 0, 3+len(auth.Username)+len(auth.Password))
	buf = append(buf, authVersion, byte(len(auth.Username)))
	buf = append(buf, auth.Username...)
	buf = append(buf, byte(len(auth.Password)))
	buf = append(buf, auth.Password...)

	if _, err := rw.Write(buf); err != nil {
		return fmt.Errorf("write auth request: %w", err)
	}

	var reply [2]byte
	if _, err := io.ReadFull(rw, reply[:]); err != nil {
		return fmt.Errorf("%w: read auth reply: %v", ErrAuthFailed, err)
	}
	if reply[1] != authStatusSuccess {
		return fmt.Errorf("%w: status 0x%02x", ErrAuthFailed, reply[1])
	}
	return nil
}
