// Package dnsquery issues the per-record-type DNS lookups for a domain.
// Each record type is queried independently: a failure in one type yields an
// empty result for that type only and never aborts the others.
package dnsquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"domainscope/internal/domain"
	"domainscope/internal/ports"
)

const defaultTimeout = 10 * time.Second

type Resolver struct {
	Server   string // primary resolver, host:port
	Fallback string // secondary resolver tried when the primary fails
	Timeout  time.Duration
	Log      *zap.SugaredLogger
}

func New(server, fallback string, log *zap.SugaredLogger) *Resolver {
	return &Resolver{Server: server, Fallback: fallback, Timeout: defaultTimeout, Log: log}
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return defaultTimeout
}

// Lookup queries NS, A, AAAA, MX, TXT, SOA and the _dmarc TXT record for the
// host. Records is nil when every record type came back empty.
func (r *Resolver) Lookup(ctx context.Context, host string) ports.DNSLookup {
	var out ports.DNSLookup
	rec := &domain.DNSRecords{}
	fqdn := dns.Fqdn(host)

	fail := func(qtype string, err error) {
		note := fmt.Sprintf("dns: %s lookup for %s failed: %v", qtype, host, err)
		out.Notes = append(out.Notes, note)
		if r.Log != nil {
			r.Log.Warnw("dns query failed", "host", host, "type", qtype, "error", err)
		}
	}

	if ans, err := r.exchange(ctx, fqdn, dns.TypeNS); err != nil {
		fail("NS", err)
	} else {
		for _, rr := range ans {
			if ns, ok := rr.(*dns.NS); ok {
				rec.Nameservers = append(rec.Nameservers, strings.TrimSuffix(ns.Ns, "."))
			}
		}
	}

	if ans, err := r.exchange(ctx, fqdn, dns.TypeA); err != nil {
		fail("A", err)
	} else {
		for _, rr := range ans {
			if a, ok := rr.(*dns.A); ok {
				rec.A = append(rec.A, a.A.String())
			}
		}
	}

	if ans, err := r.exchange(ctx, fqdn, dns.TypeAAAA); err != nil {
		fail("AAAA", err)
	} else {
		for _, rr := range ans {
			if aaaa, ok := rr.(*dns.AAAA); ok {
				rec.AAAA = append(rec.AAAA, aaaa.AAAA.String())
			}
		}
	}

	if ans, err := r.exchange(ctx, fqdn, dns.TypeMX); err != nil {
		fail("MX", err)
	} else {
		for _, rr := range ans {
			if mx, ok := rr.(*dns.MX); ok {
				rec.MX = append(rec.MX, domain.MXRecord{
					Priority: mx.Preference,
					Exchange: strings.TrimSuffix(mx.Mx, "."),
				})
			}
		}
	}

	if ans, err := r.exchange(ctx, fqdn, dns.TypeTXT); err != nil {
		fail("TXT", err)
	} else {
		for _, rr := range ans {
			if txt, ok := rr.(*dns.TXT); ok {
				rec.TXT = append(rec.TXT, strings.Join(txt.Txt, ""))
			}
		}
	}

	if ans, err := r.exchange(ctx, fqdn, dns.TypeSOA); err != nil {
		fail("SOA", err)
	} else {
		for _, rr := range ans {
			if soa, ok := rr.(*dns.SOA); ok {
				rec.SOA = fmt.Sprintf("%s %s %d %d %d %d %d",
					soa.Ns, soa.Mbox, soa.Serial, soa.Refresh, soa.Retry, soa.Expire, soa.Minttl)
				break
			}
		}
	}

	// DMARC lives on its own label; the payload must carry the v=DMARC1
	// marker, otherwise the record counts as absent.
	if ans, err := r.exchange(ctx, dns.Fqdn("_dmarc."+host), dns.TypeTXT); err != nil {
		fail("DMARC TXT", err)
	} else {
		for _, rr := range ans {
			if txt, ok := rr.(*dns.TXT); ok {
				payload := strings.Join(txt.Txt, "")
				if strings.Contains(strings.ToUpper(payload), "V=DMARC1") {
					out.DMARC = payload
					break
				}
			}
		}
	}

	if len(rec.Nameservers) > 0 || len(rec.A) > 0 || len(rec.AAAA) > 0 ||
		len(rec.MX) > 0 || len(rec.TXT) > 0 || rec.SOA != "" {
		out.Records = rec
	}
	return out
}

// exchange sends one question to the primary resolver and falls back to the
// secondary when the primary errors out or answers nothing.
func (r *Resolver) exchange(ctx context.Context, fqdn string, qtype uint16) ([]dns.RR, error) {
	client := &dns.Client{Timeout: r.timeout()}
	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, qtype)
	msg.RecursionDesired = true

	resp, _, err := client.ExchangeContext(ctx, msg, r.Server)
	if (err != nil || resp == nil || len(resp.Answer) == 0) && r.Fallback != "" {
		resp, _, err = client.ExchangeContext(ctx, msg, r.Fallback)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from resolver")
	}
	return resp.Answer, nil
}
