// Package ipintel queries a public IP-intelligence endpoint (ip-api.com
// response shape) for ASN, organization, geolocation, and proxy/VPN flags.
package ipintel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"domainscope/internal/domain"
)

const (
	DefaultBaseURL = "http://ip-api.com/json"
	defaultTimeout = 10 * time.Second

	// fields selects exactly the attributes the model carries.
	queryFields = "status,message,as,org,isp,country,countryCode,continent,city,regionName,lat,lon,proxy,hosting"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.SugaredLogger
}

func New(baseURL string, log *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: defaultTimeout},
		Log:     log,
	}
}

type response struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	AS          string   `json:"as"`
	Org         string   `json:"org"`
	ISP         string   `json:"isp"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	Continent   string   `json:"continent"`
	City        string   `json:"city"`
	Region      string   `json:"regionName"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Proxy       bool     `json:"proxy"`
	Hosting     bool     `json:"hosting"`
}

// Lookup fetches reputation data for one IPv4 address. Only fields actually
// present in the response body are carried over; any failure returns an
// error the caller absorbs.
func (c *Client) Lookup(ctx context.Context, ip string) (*domain.IPWhois, error) {
	url := fmt.Sprintf("%s/%s?fields=%s", c.BaseURL, ip, queryFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ipintel: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if c.Log != nil {
			c.Log.Warnw("ip intelligence request failed", "ip", ip, "error", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ipintel: unexpected status %d for %s", resp.StatusCode, ip)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("ipintel: decode response: %w", err)
	}
	if body.Status == "fail" {
		return nil, fmt.Errorf("ipintel: lookup failed for %s: %s", ip, body.Message)
	}

	return &domain.IPWhois{
		ASN:         body.AS,
		Org:         body.Org,
		ISP:         body.ISP,
		Country:     body.Country,
		CountryCode: body.CountryCode,
		Continent:   body.Continent,
		City:        body.City,
		Region:      body.Region,
		Latitude:    body.Lat,
		Longitude:   body.Lon,
		IsVPN:       body.Hosting,
		IsProxy:     body.Proxy,
	}, nil
}
