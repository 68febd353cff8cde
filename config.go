package socksdial

import (
	"net"
	"time"
)

// Config carries dialing knobs for Dialer.
//
// The handshake itself imposes no timeout; DialTimeout covers only the TCP
// connect to the proxy. Callers needing a bounded handshake cancel the
// context or close the stream from outside.
type Config struct {
	DialTimeout time.Duration
	KeepAlive   net.KeepAliveConfig
}
