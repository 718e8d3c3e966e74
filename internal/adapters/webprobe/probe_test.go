package webprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeAgainst(t *testing.T, handler http.HandlerFunc) (*Prober, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "http://")
	return &Prober{Scheme: "http"}, host
}

func TestProbeServerHeader(t *testing.T) {
	p, host := probeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Server", "nginx/1.24.0")
		w.WriteHeader(http.StatusOK)
	})

	ws, err := p.Probe(context.Background(), host)
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.Equal(t, "nginx/1.24.0", ws.Server)
	assert.Equal(t, "Nginx", ws.Platform)
	assert.Empty(t, ws.CDNProvider)
}

func TestProbeCDNHeaders(t *testing.T) {
	p, host := probeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "cloudflare")
		w.Header().Set("CF-Ray", "8a1b2c3d4e5f0000-SYD")
		w.WriteHeader(http.StatusOK)
	})

	ws, err := p.Probe(context.Background(), host)
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.Equal(t, "Cloudflare", ws.CDNProvider)
}

func TestProbePoweredByFallback(t *testing.T) {
	p, host := probeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Powered-By", "Express")
		w.WriteHeader(http.StatusOK)
	})

	ws, err := p.Probe(context.Background(), host)
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.Empty(t, ws.Server)
	assert.Equal(t, "Express", ws.Platform)
}

func TestProbeNoSignals(t *testing.T) {
	p, host := probeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		// httptest adds Date and Content-Type only; strip what we can.
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
	})

	ws, err := p.Probe(context.Background(), host)
	require.NoError(t, err)
	assert.Nil(t, ws)
}

func TestProbeNetworkFailure(t *testing.T) {
	p := &Prober{Scheme: "http"}
	// Closed port; connection refused.
	ws, err := p.Probe(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
	assert.Nil(t, ws)
}
