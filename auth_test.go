package socksdial

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type rwPair struct {
	io.Reader
	io.Writer
}

func TestAuthenticateRequestLength(t *testing.T) {
	lengths := []int{1, 2, 16, 128, 254, 255}

	for _, ulen := range lengths {
		for _, plen := range lengths {
			auth := Auth{
				Username: strings.Repeat("u", ulen),
				Password: strings.Repeat("p", plen),
			}

			var sent bytes.Buffer
			rw := rwPair{
				Reader: bytes.NewReader([]byte{0x01, 0x00}),
				Writer: &sent,
			}
			if err := authenticate(rw, auth); err != nil {
				t.Fatalf("ulen=%d plen=%d: %v", ulen, plen, err)
			}

			if want := 2 + ulen + 1 + plen; sent.Len() != want {
				t.Fatalf("ulen=%d plen=%d: request length %d, want %d", ulen, plen, sent.Len(), want)
			}
			buf := sent.Bytes()
			if buf[0] != 0x01 || int(buf[1]) != ulen || int(buf[2+ulen]) != plen {
				t.Fatalf("ulen=%d plen=%d: malformed request % x", ulen, plen, buf[:3])
			}
		}
	}
}

func TestAuthenticateStatusRejected(t *testing.T) {
	rw := rwPair{
		Reader: bytes.NewReader([]byte{0x01, 0x01}),
		Writer: io.Discard,
	}
	err := authenticate(rw, Auth{Username: "user", Password: "pass"})
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("got %v, want ErrAuthFailed", err)
	}
}

func TestAuthenticateTruncatedReply(t *testing.T) {
	rw := rwPair{
		Reader: bytes.NewReader([]byte{0x01}),
		Writer: io.Discard,
	}
	err := authenticate(rw, Auth{Username: "user", Password: "pass"})
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("got %v, want ErrAuthFailed", err)
	}
}

func TestAuthValidate(t *testing.T) {
	tests := []struct {
		name    string
		auth    Auth
		wantErr bool
	}{
		{name: "zero_value"},
		{name: "ok", auth: Auth{Username: "user", Password: "pass"}},
		{name: "max", auth: Auth{Username: strings.Repeat("u", 255), Password: strings.Repeat("p", 255)}},
		{name: "empty_username", auth: Auth{Password: "pass"}, wantErr: true},
		{name: "empty_password", auth: Auth{Username: "user"}, wantErr: true},
		{name: "long_username", auth: Auth{Username: strings.Repeat("u", 256), Password: "pass"}, wantErr: true},
		{name: "long_password", auth: Auth{Username: "user", Password: strings.Repeat("p", 256)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.auth.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
