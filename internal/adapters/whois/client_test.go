package whois

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWhoisServer runs a one-shot WHOIS responder on a random local port.
func startWhoisServer(t *testing.T, respond func(query string) string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 256)
				n, _ := c.Read(buf)
				if respond != nil {
					_, _ = io.WriteString(c, respond(strings.TrimSpace(string(buf[:n]))))
				}
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestClientQuery(t *testing.T) {
	addr := startWhoisServer(t, func(query string) string {
		return "Domain Name: " + query + "\nRegistrar: Test Registrar\n"
	})

	client := &Client{
		ServerFor: func(string) string { return addr },
		Timeout:   2 * time.Second,
	}
	raw, err := client.Query(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Contains(t, raw, "Domain Name: example.com")
	assert.Contains(t, raw, "Registrar: Test Registrar")
}

func TestClientQueryTimeout(t *testing.T) {
	// Server that accepts and never responds or closes.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(3 * time.Second)
	}()

	client := &Client{
		ServerFor: func(string) string { return ln.Addr().String() },
		Timeout:   200 * time.Millisecond,
	}
	_, err = client.Query(context.Background(), "example.com")
	assert.Error(t, err)
}

func TestClientQueryConnectionRefused(t *testing.T) {
	client := &Client{
		// Reserved TEST-NET address; nothing listens there.
		ServerFor: func(string) string { return "127.0.0.1:1" },
		Timeout:   500 * time.Millisecond,
	}
	_, err := client.Query(context.Background(), "example.com")
	assert.Error(t, err)
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "whois.verisign-grs.com:43", ServerAddr("example.com"))
	assert.Equal(t, "whois.pir.org:43", ServerAddr("example.org"))
	assert.Equal(t, "whois.denic.de:43", ServerAddr("beispiel.de"))
	// TLD selection uses the final dot-segment only.
	assert.Equal(t, "whois.nic.io:43", ServerAddr("deep.sub.example.io"))
	// Unknown TLDs fall back to the default server.
	assert.Equal(t, DefaultServer+":43", ServerAddr("example.unknowntld"))
	assert.Equal(t, DefaultServer+":43", ServerAddr("nodots"))
}
