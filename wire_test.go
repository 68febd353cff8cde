package socksdial

import (
	"bytes"
	"errors"
	"io"
	"net/netip"
	"testing"
)

func TestWriteGreeting(t *testing.T) {
	tests := []struct {
		name    string
		methods []byte
		want    []byte
	}{
		{name: "no_auth_only", methods: []byte{methodNone}, want: []byte{0x05, 0x01, 0x00}},
		{name: "with_user_pass", methods: []byte{methodNone, methodUsernamePassword}, want: []byte{0x05, 0x02, 0x00, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeGreeting(&buf, tt.methods); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Fatalf("got % x, want % x", buf.Bytes(), tt.want)
			}
		})
	}
}

func TestReadMethodSelection(t *testing.T) {
	method, err := readMethodSelection(bytes.NewReader([]byte{0x05, 0x02}))
	if err != nil {
		t.Fatal(err)
	}
	if method != methodUsernamePassword {
		t.Fatalf("got method 0x%02x, want 0x02", method)
	}

	if _, err := readMethodSelection(bytes.NewReader([]byte{0x04, 0x00})); !errors.Is(err, ErrProtocol) {
		t.Fatalf("version mismatch: got %v, want ErrProtocol", err)
	}

	if _, err := readMethodSelection(bytes.NewReader([]byte{0x05})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("short read: got %v, want unexpected EOF", err)
	}
}

func TestWriteConnectRequestDomain(t *testing.T) {
	target := mustDomainAddr(t, "example.com", 443)

	var buf bytes.Buffer
	if err := writeConnectRequest(&buf, target); err != nil {
		t.Fatal(err)
	}

	want := append([]byte{0x05, 0x01, 0x00, 0x03, 0x0b}, "example.com"...)
	want = append(want, 0x01, 0xbb)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWriteConnectRequestIPv4(t *testing.T) {
	target := AddrFromAddrPort(netip.MustParseAddrPort("203.0.113.1:1080"))

	var buf bytes.Buffer
	if err := writeConnectRequest(&buf, target); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x05, 0x01, 0x00, 0x01, 203, 0, 113, 1, 0x04, 0x38}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestReadReplySuccess(t *testing.T) {
	bound, err := readReply(bytes.NewReader([]byte{0x05, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if got := bound.String(); got != "0.0.0.0:0" {
		t.Fatalf("bound address %q, want 0.0.0.0:0", got)
	}
}

func TestReadReplyErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "version_mismatch", data: []byte{0x04, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0}, want: ErrProtocol},
		{name: "nonzero_rsv", data: []byte{0x05, 0x00, 0x01, 0x01, 0, 0, 0, 0, 0, 0}, want: ErrProtocol},
		{name: "bad_atyp", data: []byte{0x05, 0x00, 0x00, 0x05, 0, 0, 0, 0, 0, 0}, want: ErrProtocol},
		{name: "truncated_header", data: []byte{0x05, 0x00}, want: io.ErrUnexpectedEOF},
		{name: "truncated_address", data: []byte{0x05, 0x00, 0x00, 0x01, 0, 0}, want: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readReply(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadReplyStatus(t *testing.T) {
	// The bound address is consumed even for failure replies, and the REP
	// byte maps to a typed error with no silent defaults.
	for rep := byte(0x01); rep <= 0x09; rep++ {
		data := []byte{0x05, rep, 0x00, 0x01, 0, 0, 0, 0, 0, 0}
		_, err := readReply(bytes.NewReader(data))

		var replyErr *ReplyError
		if !errors.As(err, &replyErr) {
			t.Fatalf("rep 0x%02x: got %v, want ReplyError", rep, err)
		}
		if replyErr.Status != ReplyStatus(rep) {
			t.Fatalf("rep 0x%02x: status %v", rep, replyErr.Status)
		}
	}
}
