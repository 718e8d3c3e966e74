// Package webprobe fingerprints a domain's HTTPS origin from response
// headers alone. It sends a single HEAD request and never reads a body.
package webprobe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"domainscope/internal/domain"
	"domainscope/internal/providers"
)

const defaultTimeout = 10 * time.Second

type Prober struct {
	// Scheme is "https" in production; tests point it at an http test server.
	Scheme  string
	Timeout time.Duration
	Log     *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Prober {
	return &Prober{Scheme: "https", Timeout: defaultTimeout, Log: log}
}

// Probe issues a HEAD request to the origin, following redirects, and
// extracts server, platform, and CDN signals from the headers. A network
// failure is returned as an error; the aggregator turns it into an absent
// section plus a warning.
func (p *Prober) Probe(ctx context.Context, host string) (*domain.WebServer, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	scheme := p.Scheme
	if scheme == "" {
		scheme = "https"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, scheme+"://"+host, nil)
	if err != nil {
		return nil, fmt.Errorf("webprobe: build request: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		if p.Log != nil {
			p.Log.Warnw("http probe failed", "host", host, "error", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[strings.ToLower(name)] = resp.Header.Get(name)
	}

	ws := &domain.WebServer{
		Server:      headers["server"],
		CDNProvider: providers.ClassifyCDN(headers),
	}
	if ws.Server != "" {
		ws.Platform = providers.ClassifyPlatform(ws.Server)
	}
	if ws.Platform == "" && headers["x-powered-by"] != "" {
		ws.Platform = headers["x-powered-by"]
	}

	if ws.Server == "" && ws.Platform == "" && ws.CDNProvider == "" {
		return nil, nil
	}
	return ws, nil
}
