// Command socksdial is netcat over SOCKS5: it opens a CONNECT tunnel to a
// target through a SOCKS5 proxy and pipes stdin/stdout over it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/die-net/socksdial"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		proxy        = pflag.String("proxy", defaultProxy(), "SOCKS5 proxy URL: socks5://[user:pass@]host:port")
		dialTimeout  = pflag.Duration("dial-timeout", 10*time.Second, "Timeout for the TCP connect to the proxy")
		tcpKeepAlive = pflag.String("tcp-keepalive", "45:45:3", "TCP keepalive: on|off|keepidle:keepintvl:keepcnt")
		verbose      = pflag.Bool("verbose", false, "Log tunnel establishment details")
	)

	pflag.CommandLine.SortFlags = false
	pflag.Parse()

	if pflag.NArg() != 1 {
		return errors.New("usage: socksdial [flags] host:port")
	}
	target := pflag.Arg(0)

	ka, err := parseTCPKeepAlive(*tcpKeepAlive)
	if err != nil {
		return fmt.Errorf("invalid --tcp-keepalive: %w", err)
	}

	proxyAddr, auth, err := parseProxyURL(*proxy)
	if err != nil {
		return fmt.Errorf("invalid --proxy: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := socksdial.NewDialer(socksdial.Config{DialTimeout: *dialTimeout, KeepAlive: ka}, proxyAddr, auth)
	conn, err := d.DialContext(ctx, "tcp", target)
	if err != nil {
		return err
	}
	defer conn.Close()

	if *verbose {
		log.Printf("connected to %s via %s", target, proxyAddr)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := io.Copy(conn, os.Stdin)
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.CloseWrite()
		}
		return err
	})

	g.Go(func() error {
		_, err := io.Copy(os.Stdout, conn)
		return err
	})

	// Close the tunnel on signal to unblock both copies.
	g.Go(func() error {
		<-gctx.Done()
		_ = conn.Close()
		return nil
	})

	err = g.Wait()
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		err = nil
	}
	return err
}

// parseProxyURL accepts socks5://[user:pass@]host:port, applying the default
// SOCKS5 port when the URL omits one. A bare host:port is taken as-is.
func parseProxyURL(proxy string) (string, socksdial.Auth, error) {
	if proxy == "" {
		return "", socksdial.Auth{}, errors.New("empty")
	}

	if !strings.Contains(proxy, "://") {
		return proxy, socksdial.Auth{}, nil
	}

	u, err := url.Parse(proxy)
	if err != nil {
		return "", socksdial.Auth{}, fmt.Errorf("invalid url: %w", err)
	}
	if strings.ToLower(u.Scheme) != "socks5" {
		return "", socksdial.Auth{}, fmt.Errorf("invalid url scheme: %q", u.Scheme)
	}
	if u.Path != "" && u.Path != "/" {
		return "", socksdial.Auth{}, errors.New("invalid url: path should be empty")
	}

	host := u.Hostname()
	if host == "" {
		return "", socksdial.Auth{}, errors.New("invalid url: missing host")
	}
	port := u.Port()
	if port == "" {
		port = "1080"
	}

	var auth socksdial.Auth
	if u.User != nil {
		auth.Username = u.User.Username()
		auth.Password, _ = u.User.Password()
	}

	return net.JoinHostPort(host, port), auth, nil
}

func parseTCPKeepAlive(s string) (net.KeepAliveConfig, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return net.KeepAliveConfig{}, errors.New("empty")
	}
	if s == "on" {
		return net.KeepAliveConfig{Enable: true}, nil
	}
	if s == "off" {
		return net.KeepAliveConfig{Enable: false}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return net.KeepAliveConfig{}, errors.New("expected on|off|keepidle:keepintvl:keepcnt")
	}
	keepIdle, err := parsePositiveSeconds(parts[0])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepidle: %w", err)
	}
	keepIntvl, err := parsePositiveSeconds(parts[1])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepintvl: %w", err)
	}
	keepCnt, err := parsePositiveInt(parts[2])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepcnt: %w", err)
	}

	return net.KeepAliveConfig{
		Enable:   true,
		Idle:     keepIdle,
		Interval: keepIntvl,
		Count:    keepCnt,
	}, nil
}

func parsePositiveSeconds(s string) (time.Duration, error) {
	n, err := parsePositiveInt(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be > 0")
	}
	return n, nil
}

func defaultProxy() string {
	if p := os.Getenv("ALL_PROXY"); p != "" {
		return p
	}
	if p := os.Getenv("all_proxy"); p != "" {
		return p
	}
	return "socks5://127.0.0.1:1080"
}
