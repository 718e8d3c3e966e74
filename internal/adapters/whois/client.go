// Package whois implements the raw WHOIS text protocol (RFC 3912) and a
// tolerant line-based parser for the unstandardized responses registries
// return.
package whois

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client performs raw WHOIS queries over TCP port 43.
type Client struct {
	// ServerFor picks the server address for a domain. Defaults to the
	// static TLD table lookup; tests point it at a local listener.
	ServerFor func(domain string) string
	Timeout   time.Duration
}

func NewClient() *Client {
	return &Client{ServerFor: ServerAddr, Timeout: defaultTimeout}
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// Query writes "<domain>\r\n" to the registry's port 43 and reads until the
// peer closes the connection. The whole exchange is bounded by one deadline.
func (c *Client) Query(ctx context.Context, domain string) (string, error) {
	serverFor := c.ServerFor
	if serverFor == nil {
		serverFor = ServerAddr
	}
	addr := serverFor(domain)

	dialer := net.Dialer{Timeout: c.timeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("whois: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout())); err != nil {
		return "", fmt.Errorf("whois: set deadline: %w", err)
	}
	if _, err := conn.Write([]byte(domain + "\r\n")); err != nil {
		return "", fmt.Errorf("whois: write query: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("whois: read response from %s: %w", addr, err)
	}
	return string(raw), nil
}
