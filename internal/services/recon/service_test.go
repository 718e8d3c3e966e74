package recon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainscope/internal/domain"
	"domainscope/internal/ports"
	"domainscope/internal/scoring"
)

type fakeDNS struct {
	res ports.DNSLookup
}

func (f fakeDNS) Lookup(ctx context.Context, host string) ports.DNSLookup { return f.res }

type fakeWhois struct {
	rec *domain.Registration
	err error
}

func (f fakeWhois) Lookup(ctx context.Context, host string) (*domain.Registration, error) {
	return f.rec, f.err
}

type fakeWeb struct {
	ws  *domain.WebServer
	err error
}

func (f fakeWeb) Probe(ctx context.Context, host string) (*domain.WebServer, error) {
	return f.ws, f.err
}

type fakeIntel struct {
	ipw    *domain.IPWhois
	err    error
	called *bool
}

func (f fakeIntel) Lookup(ctx context.Context, ip string) (*domain.IPWhois, error) {
	if f.called != nil {
		*f.called = true
	}
	return f.ipw, f.err
}

func TestCollectAllSourcesFail(t *testing.T) {
	called := false
	svc := New(
		fakeDNS{},
		fakeWhois{err: errors.New("connection refused")},
		fakeWeb{err: errors.New("no route to host")},
		fakeIntel{called: &called},
		nil,
	)

	infra := svc.Collect(context.Background(), "example.com")

	assert.Nil(t, infra.Registration)
	assert.Nil(t, infra.DNS)
	assert.Nil(t, infra.Hosting)
	assert.Nil(t, infra.WebServer)
	assert.Nil(t, infra.Email)
	assert.False(t, called, "IP intel must not run without an A record")
	assert.NotEmpty(t, infra.Metadata.Warnings)
	assert.ElementsMatch(t, []string{"dns", "whois", "http_headers"}, infra.Metadata.DataSources)
}

func TestCollectNoARecordsSkipsHosting(t *testing.T) {
	called := false
	svc := New(
		fakeDNS{res: ports.DNSLookup{Records: &domain.DNSRecords{
			Nameservers: []string{"ns1.example.com", "ns2.example.com"},
		}}},
		fakeWhois{err: errors.New("unavailable")},
		fakeWeb{err: errors.New("unavailable")},
		fakeIntel{called: &called},
		nil,
	)

	infra := svc.Collect(context.Background(), "example.com")

	require.NotNil(t, infra.DNS)
	assert.Nil(t, infra.Hosting)
	assert.False(t, called)
	assert.NotContains(t, infra.Metadata.DataSources, "ip_intelligence")
}

func TestCollectEmailRequiresMX(t *testing.T) {
	rec := &domain.DNSRecords{
		A:   []string{"203.0.113.10"},
		TXT: []string{"v=spf1 include:_spf.example.com ~all"},
	}
	svc := New(fakeDNS{res: ports.DNSLookup{Records: rec}}, fakeWhois{}, fakeWeb{}, fakeIntel{}, nil)

	infra := svc.Collect(context.Background(), "example.com")
	assert.Nil(t, infra.Email, "no MX records means no email section")
}

func TestCollectEmailSection(t *testing.T) {
	rec := &domain.DNSRecords{
		A: []string{"203.0.113.10"},
		MX: []domain.MXRecord{
			{Priority: 1, Exchange: "aspmx.l.google.com"},
		},
		TXT: []string{"v=spf1 include:_spf.google.com ~all"},
	}
	svc := New(
		fakeDNS{res: ports.DNSLookup{Records: rec, DMARC: "v=DMARC1; p=reject"}},
		fakeWhois{}, fakeWeb{}, fakeIntel{}, nil,
	)

	infra := svc.Collect(context.Background(), "example.com")

	require.NotNil(t, infra.Email)
	assert.Equal(t, "Google Workspace", infra.Email.MXProvider)
	assert.True(t, infra.Email.HasSPF)
	assert.True(t, infra.Email.HasDMARC)
	assert.Equal(t, "v=DMARC1; p=reject", infra.Email.DMARCRecord)
}

func TestCollectHostingSurvivesIntelFailure(t *testing.T) {
	rec := &domain.DNSRecords{A: []string{"203.0.113.10"}}
	svc := New(
		fakeDNS{res: ports.DNSLookup{Records: rec}},
		fakeWhois{}, fakeWeb{},
		fakeIntel{err: errors.New("rate limited")},
		nil,
	)

	infra := svc.Collect(context.Background(), "example.com")

	require.NotNil(t, infra.Hosting)
	assert.Equal(t, "203.0.113.10", infra.Hosting.IPAddress)
	assert.Contains(t, infra.Metadata.DataSources, "ip_intelligence")
	assert.Contains(t, infra.Metadata.Warnings, "IP intelligence unavailable")
}

// End-to-end: one A record, no MX, expiring registration, nginx origin.
func TestRunExpiringDomainScenario(t *testing.T) {
	expires := time.Now().Add(10 * 24 * time.Hour).Format("2006-01-02")
	created := time.Now().Add(-100 * 24 * time.Hour).Format("2006-01-02")

	svc := New(
		fakeDNS{res: ports.DNSLookup{Records: &domain.DNSRecords{
			Nameservers: []string{"ns1.example-isp.net", "ns2.example-isp.net"},
			A:           []string{"203.0.113.10"},
		}}},
		fakeWhois{rec: &domain.Registration{
			Registrar:       "Example Registrar",
			ExpirationDate:  expires,
			CreatedDate:     created,
			RegistrantName:  "Jordan Smith",
			RegistrantEmail: "jordan@example.com",
			Status:          []string{"ok"},
		}},
		fakeWeb{ws: &domain.WebServer{Server: "nginx/1.24.0", Platform: "Nginx"}},
		fakeIntel{ipw: &domain.IPWhois{Org: "Example Hosting LLC", CountryCode: "US"}},
		nil,
	)

	report := svc.Run(context.Background(), "HTTPS://WWW.Example.com/path")

	assert.Equal(t, "example.com", report.Result.Domain)

	byCategory := map[string]domain.RiskScore{}
	for _, rs := range report.RiskScores {
		byCategory[rs.Category] = rs
	}

	reg, ok := byCategory[scoring.CategoryRegistration]
	require.True(t, ok)
	assert.Equal(t, domain.SeverityCritical, reg.Severity)
	foundExpiry := false
	for _, f := range reg.Findings {
		if strings.Contains(f, "days") && strings.Contains(f, "expires") {
			foundExpiry = true
		}
	}
	assert.True(t, foundExpiry, "expected a finding mentioning days until expiry")

	_, hasDNS := byCategory[scoring.CategoryDNS]
	assert.True(t, hasDNS)
	_, hasEmail := byCategory[scoring.CategoryEmail]
	assert.False(t, hasEmail, "no MX data means no email category")

	ws, hasWS := byCategory[scoring.CategoryWebServer]
	require.True(t, hasWS)
	assert.Contains(t, ws.Findings[0], "Nginx")

	require.NotEmpty(t, report.AttackSurfaces)
	top := report.AttackSurfaces[0]
	assert.Equal(t, scoring.VectorRegistrar, top.Vector)
	assert.Equal(t, domain.SeverityCritical, top.RiskSeverity)
	assert.GreaterOrEqual(t, top.RiskScore, 90)
}
