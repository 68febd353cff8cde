package socksdial

import (
	"fmt"
	"io"
)

const socksVersion byte = 0x05

// Authentication methods from RFC 1928 section 3. The client only ever
// offers the first two.
const (
	methodNone                byte = 0x00
	methodUsernamePassword    byte = 0x02
	methodNoAcceptableMethods byte = 0xFF
)

const cmdConnect byte = 0x01

// writeGreeting sends VER, NMETHODS, and the method list in one write.
func writeGreeting(w io.Writer, methods []byte) error {
	buf := append([]byte{socksVersion, byte(len(methods))}, methods...)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write greeting: %w", err)
	}
	return nil
}

// readMethodSelection reads the two-byte VER, METHOD answer to a greeting
// and returns the method the server selected.
func readMethodSelection(r io.Reader) (byte, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read method selection: %w", err)
	}
	if buf[0] != socksVersion {
		return 0, fmt.Errorf("%w: version 0x%02x in method selection", ErrProtocol, buf[0])
	}
	return buf[1], nil
}

// writeConnectRequest sends VER, CMD=CONNECT, RSV, then the target address.
func writeConnectRequest(w io.Writer, target Addr) error {
	buf := target.appendTo([]byte{socksVersion, cmdConnect, 0x00})
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write connect request: %w", err)
	}
	return nil
}

// readReply reads a VER, REP, RSV, ATYP, BND.ADDR, BND.PORT reply. The bound
// address is consumed for any REP value so the stream is left positioned at
// the first tunnel byte, but a non-zero REP is returned as a ReplyError.
func readReply(r io.Reader) (Addr, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Addr{}, fmt.Errorf("read reply: %w", err)
	}
	if hdr[0] != socksVersion {
		return Addr{}, fmt.Errorf("%w: version 0x%02x in reply", ErrProtocol, hdr[0])
	}
	if hdr[2] != 0x00 {
		return Addr{}, fmt.Errorf("%w: reserved byte 0x%02x in reply", ErrProtocol, hdr[2])
	}

	bound, err := readAddr(r, hdr[3])
	if err != nil {
		return Addr{}, err
	}

	if status := ReplyStatus(hdr[1]); status != StatusSucceeded {
		return Addr{}, &ReplyError{Status: status}
	}
	return bound, nil
}
