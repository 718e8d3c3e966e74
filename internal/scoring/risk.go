// Package scoring holds the two independent scoring passes over an
// infrastructure record: category risk scores (general security posture)
// and ranked attack surfaces (phishing-pretext attractiveness). They score
// overlapping signals with different heuristics on purpose; do not unify
// them.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"domainscope/internal/domain"
	"domainscope/internal/providers"
)

// Category names.
const (
	CategoryRegistration = "Domain Registration"
	CategoryDNS          = "DNS Security"
	CategoryEmail        = "Email Security"
	CategoryHosting      = "Hosting Infrastructure"
	CategoryWebServer    = "Web Server"
)

// Evaluate produces one RiskScore per category whose input section is
// present. Absent sections yield no entry at all.
func Evaluate(infra domain.InfrastructureData) []domain.RiskScore {
	var scores []domain.RiskScore
	if rs, ok := scoreRegistration(infra); ok {
		scores = append(scores, rs)
	}
	if rs, ok := scoreDNS(infra); ok {
		scores = append(scores, rs)
	}
	if rs, ok := scoreEmail(infra); ok {
		scores = append(scores, rs)
	}
	if rs, ok := scoreHosting(infra); ok {
		scores = append(scores, rs)
	}
	if rs, ok := scoreWebServer(infra); ok {
		scores = append(scores, rs)
	}
	return scores
}

// tally accumulates signed point contributions in evaluation order.
type tally struct {
	score    int
	findings []string
	vectors  []string
}

func (t *tally) add(points int, finding string, vectors ...string) {
	t.score += points
	if finding != "" {
		t.findings = append(t.findings, finding)
	}
	t.vectors = append(t.vectors, vectors...)
}

// finish clamps the sum at 100 (negative sums keep their signed value) and
// derives severity and weight.
func (t *tally) finish(category string, floorWeight float64) domain.RiskScore {
	score := t.score
	if score > 100 {
		score = 100
	}
	weight := float64(score) / 100
	if weight < floorWeight {
		weight = floorWeight
	}
	findings := t.findings
	if findings == nil {
		findings = []string{}
	}
	vectors := t.vectors
	if vectors == nil {
		vectors = []string{}
	}
	return domain.RiskScore{
		Category:      category,
		Score:         score,
		Severity:      SeverityFor(score),
		Weight:        weight,
		Findings:      findings,
		AttackVectors: vectors,
	}
}

// SeverityFor maps a signed score onto the fixed thresholds.
func SeverityFor(score int) string {
	switch {
	case score > 70:
		return domain.SeverityCritical
	case score > 40:
		return domain.SeverityHigh
	case score > 20:
		return domain.SeverityMedium
	default:
		return domain.SeverityInfo
	}
}

func scoreRegistration(infra domain.InfrastructureData) (domain.RiskScore, bool) {
	reg := infra.Registration
	if reg == nil {
		return domain.RiskScore{}, false
	}
	var t tally

	if days, ok := daysUntil(reg.ExpirationDate); ok {
		if days < 30 {
			t.add(25, fmt.Sprintf("Domain expires in %d days", days),
				"Urgent renewal notice impersonating the registrar")
		} else if days < 90 {
			t.add(15, fmt.Sprintf("Domain expires in %d days", days),
				"Renewal reminder impersonating the registrar")
		}
	}

	if age, ok := ageDays(reg.CreatedDate); ok && age < 365 {
		t.add(20, fmt.Sprintf("Domain registered %d days ago", age),
			"New-domain onboarding or verification pretext")
	}

	if reg.RegistrantName != "" {
		t.add(10, fmt.Sprintf("Registrant name publicly disclosed: %s", reg.RegistrantName),
			"Personalized spear-phishing against the registrant")
	}
	if reg.RegistrantEmail != "" {
		t.add(8, fmt.Sprintf("Registrant email publicly disclosed: %s", reg.RegistrantEmail),
			"Direct contact with the domain owner")
	}
	if reg.Registrar != "" {
		t.add(5, fmt.Sprintf("Registrar disclosed: %s", reg.Registrar),
			"Registrar impersonation")
	}

	for _, status := range reg.Status {
		if !strings.Contains(strings.ToLower(status), "lock") {
			t.add(15, fmt.Sprintf("Domain status not locked: %s", status))
			break
		}
	}

	return t.finish(CategoryRegistration, -1), true
}

func scoreDNS(infra domain.InfrastructureData) (domain.RiskScore, bool) {
	rec := infra.DNS
	if rec == nil {
		return domain.RiskScore{}, false
	}
	var t tally

	provider, managed := providers.ClassifyNameservers(rec.Nameservers)
	if managed {
		t.add(-5, fmt.Sprintf("Managed DNS provider: %s", provider))
	} else {
		t.add(10, "Default or ISP nameservers in use",
			"Impersonation of a small or self-managed DNS operator")
	}

	// DNSSEC status comes from the registration record; an absent record
	// counts the same as unsigned.
	dnssec := ""
	if infra.Registration != nil {
		dnssec = strings.ToLower(infra.Registration.DNSSEC)
	}
	if dnssec == "" || strings.Contains(dnssec, "unsigned") {
		t.add(20, "DNSSEC not enabled",
			"DNS responses carry no cryptographic authenticity")
	} else {
		t.add(-10, "DNSSEC enabled")
	}

	if len(rec.Nameservers) < 2 {
		t.add(15, fmt.Sprintf("Only %d nameserver(s) configured", len(rec.Nameservers)))
	}
	if len(rec.A) == 0 {
		t.add(10, "No A records resolved")
	}

	return t.finish(CategoryDNS, -1), true
}

func scoreEmail(infra domain.InfrastructureData) (domain.RiskScore, bool) {
	email := infra.Email
	if email == nil {
		return domain.RiskScore{}, false
	}
	var t tally

	if !email.HasSPF {
		t.add(25, "No SPF record published",
			"Spoofed sender addresses on the domain")
	} else {
		t.add(-10, "SPF record present")
	}
	if !email.HasDMARC {
		t.add(20, "No DMARC policy published",
			"Display-name and exact-domain impersonation")
	} else {
		t.add(-10, "DMARC policy present")
	}

	if email.MXProvider == providers.SelfHostedMX {
		t.add(15, "Mail appears self-hosted or on a custom provider",
			"IT helpdesk impersonation for the in-house mail system")
	}

	if infra.DNS != nil && len(infra.DNS.MX) < 2 {
		t.add(10, fmt.Sprintf("Only %d MX record(s) configured", len(infra.DNS.MX)))
	}

	return t.finish(CategoryEmail, -1), true
}

func scoreHosting(infra domain.InfrastructureData) (domain.RiskScore, bool) {
	hosting := infra.Hosting
	if hosting == nil {
		return domain.RiskScore{}, false
	}
	var t tally

	if hosting.IPWhois.IsVPN {
		t.add(20, "Origin hosted behind a VPN or anonymizing host")
	}
	if hosting.IPWhois.IsProxy {
		t.add(15, "Origin hosted behind a proxy")
	}
	country := hosting.IPWhois.CountryCode
	if country == "" {
		country = hosting.IPWhois.Country
	}
	if country != "" && country != "US" && !strings.EqualFold(country, "United States") {
		// Informational only: not a vulnerability, flagged for
		// regional-targeting relevance.
		t.add(5, fmt.Sprintf("Hosted outside the US (%s)", country))
	}

	return t.finish(CategoryHosting, -1), true
}

func scoreWebServer(infra domain.InfrastructureData) (domain.RiskScore, bool) {
	ws := infra.WebServer
	if ws == nil {
		return domain.RiskScore{}, false
	}
	var t tally

	if ws.CDNProvider != "" {
		t.add(-5, fmt.Sprintf("CDN in front of origin: %s", ws.CDNProvider))
	} else if ws.Platform != "" {
		t.add(5, fmt.Sprintf("Web platform identified: %s", ws.Platform),
			"Platform-specific maintenance or outage pretext")
	}

	// Web Server keeps a non-zero weight so it always carries some
	// downstream influence.
	return t.finish(CategoryWebServer, 0.1), true
}

// whoisDateFormats covers the date layouts registries commonly emit.
var whoisDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02/01/2006",
	"2006/01/02",
}

func parseWhoisDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range whoisDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func daysUntil(raw string) (int, bool) {
	t, ok := parseWhoisDate(raw)
	if !ok {
		return 0, false
	}
	return int(time.Until(t).Hours() / 24), true
}

func ageDays(raw string) (int, bool) {
	t, ok := parseWhoisDate(raw)
	if !ok {
		return 0, false
	}
	return int(time.Since(t).Hours() / 24), true
}
