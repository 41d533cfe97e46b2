// Package httpclient provides the outbound HTTP client for upstream
// requests, with optional proxy support and browser-like TLS fingerprinting
// for Cloudflare-fronted hosts.
package httpclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movie-sync-go/pkg/config"
	"movie-sync-go/pkg/logging"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"
)

// Client wraps http.Client with a default browser User-Agent and per-host
// transport selection.
type Client struct {
	defaultClient *http.Client
	utlsClient    *http.Client // browser-like TLS fingerprint for Cloudflare-fronted hosts
	utlsHosts     []string
	userAgent     string
	log           *logging.Logger
}

// ipv4DialContext forces IPv4-only connections. Some crawl environments
// advertise IPv6 routes that do not actually carry traffic.
func ipv4DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if network == "tcp" {
		network = "tcp4"
	}
	d := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 60 * time.Second,
	}
	return d.DialContext(ctx, network, addr)
}

// New creates a new HTTP client from the given configuration.
func New(cfg *config.Config, log *logging.Logger) *Client {
	c := &Client{
		utlsHosts: cfg.UTLSHosts,
		userAgent: cfg.UserAgent,
		log:       log.WithComponent("httpclient"),
	}

	transport := &http.Transport{
		DialContext:           ipv4DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
	}

	if cfg.Proxy != "" {
		if err := configureProxy(transport, cfg.Proxy); err != nil {
			c.log.Error("failed to configure proxy, connecting directly", "proxy", cfg.Proxy, "error", err)
		}
	}

	c.defaultClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}
	c.utlsClient = &http.Client{
		Transport: newUTLSRoundTripper(),
		Timeout:   cfg.RequestTimeout,
	}

	return c
}

// configureProxy routes the transport through the configured proxy URL.
// HTTP proxies use the transport's own support; SOCKS5 proxies go through
// golang.org/x/net/proxy.
func configureProxy(transport *http.Transport, proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return err
	}

	switch parsed.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(parsed, proxy.Direct)
		if err != nil {
			return err
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
		return nil
	default:
		return fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}
}

// Do executes an HTTP request, injecting the browser User-Agent when the
// caller has not set one.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.needsUTLS(req.URL) {
		c.log.Debug("using utls client", "host", req.URL.Host)
		return c.utlsClient.Do(req)
	}
	return c.defaultClient.Do(req)
}

// needsUTLS reports whether the URL's host requires browser-like TLS
// fingerprinting.
func (c *Client) needsUTLS(u *url.URL) bool {
	if u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range c.utlsHosts {
		if host == strings.ToLower(h) || strings.HasSuffix(host, "."+strings.ToLower(h)) {
			return true
		}
	}
	return false
}

// utlsRoundTripper implements http.RoundTripper with a Chrome TLS
// fingerprint, speaking HTTP/2 when the server negotiates it.
type utlsRoundTripper struct {
	dialer      *net.Dialer
	h2Transport *http2.Transport
}

func newUTLSRoundTripper() *utlsRoundTripper {
	return &utlsRoundTripper{
		dialer: &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 60 * time.Second,
		},
		h2Transport: &http2.Transport{},
	}
}

func (t *utlsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return http.DefaultTransport.RoundTrip(req)
	}

	addr := req.URL.Host
	if !strings.Contains(addr, ":") {
		addr += ":443"
	}

	conn, err := t.dialer.DialContext(req.Context(), "tcp4", addr)
	if err != nil {
		return nil, err
	}

	tlsConf := &utls.Config{ServerName: req.URL.Hostname()}
	utlsConn := utls.UClient(conn, tlsConf, utls.HelloChrome_120)
	if err := utlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, err
	}

	if utlsConn.ConnectionState().NegotiatedProtocol == "h2" {
		h2Conn, err := t.h2Transport.NewClientConn(utlsConn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return h2Conn.RoundTrip(req)
	}

	// HTTP/1.1 fallback
	if err := req.Write(utlsConn); err != nil {
		conn.Close()
		return nil, err
	}
	resp, err := http.ReadResponse(bufio.NewReader(utlsConn), req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	resp.Body = &connCloser{resp.Body, conn}
	return resp, nil
}

// connCloser ties the lifetime of an HTTP/1.1 response body to its
// underlying connection.
type connCloser struct {
	io.ReadCloser
	conn net.Conn
}

func (c *connCloser) Close() error {
	c.ReadCloser.Close()
	return c.conn.Close()
}
