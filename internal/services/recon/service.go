// Package recon orchestrates the passive infrastructure lookups for one
// domain and fuses their partial results into a single record. Total failure
// of every source is not an error: the caller still gets a result, with the
// gaps spelled out in metadata.warnings.
package recon

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"domainscope/internal/domain"
	"domainscope/internal/ports"
	"domainscope/internal/providers"
	"domainscope/internal/scoring"
)

const collectionMethod = "passive"

type Service struct {
	dns     ports.DNSResolver
	whois   ports.RegistrationSource
	web     ports.WebProber
	ipintel ports.IPIntel
	log     *zap.SugaredLogger
}

func New(dns ports.DNSResolver, whois ports.RegistrationSource, web ports.WebProber, ipintel ports.IPIntel, log *zap.SugaredLogger) *Service {
	return &Service{dns: dns, whois: whois, web: web, ipintel: ipintel, log: log}
}

// Run collects the infrastructure record and applies both scoring passes.
func (s *Service) Run(ctx context.Context, rawDomain string) domain.Report {
	infra := s.Collect(ctx, rawDomain)
	return domain.Report{
		Result:         infra,
		RiskScores:     scoring.Evaluate(infra),
		AttackSurfaces: scoring.ExtractSurfaces(infra),
	}
}

// Collect fans out the DNS, WHOIS, and HTTP lookups concurrently; the IP
// lookup runs after DNS and only when at least one A record resolved. Each
// branch recovers its own panics and converts failure into an absent section.
func (s *Service) Collect(ctx context.Context, rawDomain string) domain.InfrastructureData {
	host := Normalize(rawDomain)
	infra := domain.InfrastructureData{
		Domain:    host,
		Timestamp: time.Now().UTC(),
		Metadata: domain.Metadata{
			CollectionMethod: collectionMethod,
		},
	}

	var (
		wg sync.WaitGroup

		dnsRes ports.DNSLookup
		reg    *domain.Registration
		web    *domain.WebServer
		ipw    *domain.IPWhois

		ipIntelInvoked bool
	)

	wg.Add(3)

	go s.branch(&wg, host, "dns", func() {
		dnsRes = s.dns.Lookup(ctx, host)
		// The IP lookup is gated on a resolved A record; it rides in the
		// DNS branch because nothing else can start it.
		if dnsRes.Records != nil && len(dnsRes.Records.A) > 0 {
			ipIntelInvoked = true
			if got, err := s.ipintel.Lookup(ctx, dnsRes.Records.A[0]); err == nil {
				ipw = got
			}
		}
	})

	go s.branch(&wg, host, "whois", func() {
		if got, err := s.whois.Lookup(ctx, host); err == nil {
			reg = got
		}
	})

	go s.branch(&wg, host, "http", func() {
		if got, err := s.web.Probe(ctx, host); err == nil {
			web = got
		}
	})

	wg.Wait()

	infra.Metadata.DataSources = []string{"dns", "whois", "http_headers"}
	if ipIntelInvoked {
		infra.Metadata.DataSources = append(infra.Metadata.DataSources, "ip_intelligence")
	}
	infra.Metadata.Notes = append(infra.Metadata.Notes, dnsRes.Notes...)

	warn := func(msg string) {
		infra.Metadata.Warnings = append(infra.Metadata.Warnings, msg)
		if s.log != nil {
			s.log.Warnw("source returned nothing", "domain", host, "warning", msg)
		}
	}

	if dnsRes.Records != nil {
		dnsRes.Records.NSProvider, _ = providers.ClassifyNameservers(dnsRes.Records.Nameservers)
		infra.DNS = dnsRes.Records
	} else {
		warn("DNS data unavailable")
	}

	if reg != nil {
		infra.Registration = reg
	} else {
		warn("WHOIS data unavailable")
	}

	if web != nil {
		infra.WebServer = web
	} else {
		warn("Web server fingerprint unavailable")
	}

	if infra.DNS != nil && len(infra.DNS.A) > 0 {
		hosting := &domain.Hosting{
			IPAddress: infra.DNS.A[0],
			IPv6:      infra.DNS.AAAA,
		}
		if ipw != nil {
			hosting.IPWhois = *ipw
		} else {
			warn("IP intelligence unavailable")
		}
		infra.Hosting = hosting
	}

	if infra.DNS != nil && len(infra.DNS.MX) > 0 {
		infra.Email = buildEmail(infra.DNS, dnsRes.DMARC)
	}

	return infra
}

// branch runs one lookup with its own panic boundary so a misbehaving
// adapter cannot take down its siblings.
func (s *Service) branch(wg *sync.WaitGroup, host, name string, fn func()) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil && s.log != nil {
			s.log.Errorw("lookup panicked", "domain", host, "source", name, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// buildEmail derives the email-authentication view from completed DNS data.
func buildEmail(rec *domain.DNSRecords, dmarc string) *domain.EmailAuth {
	email := &domain.EmailAuth{}

	exchanges := make([]string, 0, len(rec.MX))
	for _, mx := range rec.MX {
		exchanges = append(exchanges, mx.Exchange)
		name, _ := providers.ClassifyMXHost(mx.Exchange)
		email.MXProviders = append(email.MXProviders, name)
	}
	email.MXProvider, _ = providers.ClassifyMX(exchanges)

	for _, txt := range rec.TXT {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(txt)), "v=spf1") {
			email.HasSPF = true
			email.SPFRecord = txt
			break
		}
	}
	if dmarc != "" {
		email.HasDMARC = true
		email.DMARCRecord = dmarc
	}
	return email
}
