package scoring

import (
	"fmt"
	"sort"

	"domainscope/internal/domain"
	"domainscope/internal/providers"
)

// Attack-surface vector labels, in fixed evaluation order. The order doubles
// as the tie-breaker when scores are equal.
const (
	VectorRegistrar     = "Registrar"
	VectorEmailProvider = "Email Provider"
	VectorDNSProvider   = "DNS Provider"
	VectorRegistrant    = "Registrant Contact"
	VectorHosting       = "Hosting Provider"
	VectorWebServer     = "Web Server"
)

const maxSurfaces = 5

// ExtractSurfaces ranks the most actionable pretext angles. It evaluates the
// six fixed candidates in order, keeps only those whose underlying data is
// present, sorts descending by score with insertion order breaking ties, and
// truncates to the top five. The heuristics here are tuned for "what is most
// convincing to use as a pretext" and are independent of Evaluate.
func ExtractSurfaces(infra domain.InfrastructureData) []domain.AttackSurface {
	var surfaces []domain.AttackSurface

	if s, ok := registrarSurface(infra); ok {
		surfaces = append(surfaces, s)
	}
	if s, ok := emailProviderSurface(infra); ok {
		surfaces = append(surfaces, s)
	}
	if s, ok := dnsProviderSurface(infra); ok {
		surfaces = append(surfaces, s)
	}
	if s, ok := registrantSurface(infra); ok {
		surfaces = append(surfaces, s)
	}
	if s, ok := hostingSurface(infra); ok {
		surfaces = append(surfaces, s)
	}
	if s, ok := webServerSurface(infra); ok {
		surfaces = append(surfaces, s)
	}

	sort.SliceStable(surfaces, func(i, j int) bool {
		return surfaces[i].RiskScore > surfaces[j].RiskScore
	})
	if len(surfaces) > maxSurfaces {
		surfaces = surfaces[:maxSurfaces]
	}
	return surfaces
}

func registrarSurface(infra domain.InfrastructureData) (domain.AttackSurface, bool) {
	reg := infra.Registration
	if reg == nil || reg.Registrar == "" {
		return domain.AttackSurface{}, false
	}

	severity, score, weight := domain.SeverityMedium, 50, 0.7
	if days, ok := daysUntil(reg.ExpirationDate); ok {
		if days < 30 {
			severity, score, weight = domain.SeverityCritical, 95, 0.95
		} else if days < 90 {
			severity, score, weight = domain.SeverityHigh, 75, 0.85
		}
	}
	if age, ok := ageDays(reg.CreatedDate); ok && age < 365 {
		score += 5
		if score > 100 {
			score = 100
		}
		weight += 0.05
		if weight > 1 {
			weight = 1
		}
		if score >= 90 {
			severity = domain.SeverityCritical
		}
	}

	return domain.AttackSurface{
		Vector:         VectorRegistrar,
		Value:          reg.Registrar,
		Description:    fmt.Sprintf("Domain is registered through %s", reg.Registrar),
		PhishingTactic: "Fake renewal, transfer, or suspension notice from the registrar",
		RiskSeverity:   severity,
		RiskScore:      score,
		Weight:         weight,
	}, true
}

func emailProviderSurface(infra domain.InfrastructureData) (domain.AttackSurface, bool) {
	email := infra.Email
	if email == nil {
		return domain.AttackSurface{}, false
	}

	missing := 0
	if !email.HasSPF {
		missing++
	}
	if !email.HasDMARC {
		missing++
	}

	var severity string
	var score int
	var weight float64
	switch missing {
	case 2:
		severity, score, weight = domain.SeverityCritical, 90, 0.9
	case 1:
		severity, score, weight = domain.SeverityHigh, 75, 0.8
	default:
		severity, score, weight = domain.SeverityLow, 30, 0.3
	}

	return domain.AttackSurface{
		Vector:         VectorEmailProvider,
		Value:          email.MXProvider,
		Description:    fmt.Sprintf("Mail is handled by %s", email.MXProvider),
		PhishingTactic: "Spoofed or look-alike email from the organization's own mail domain",
		RiskSeverity:   severity,
		RiskScore:      score,
		Weight:         weight,
	}, true
}

func dnsProviderSurface(infra domain.InfrastructureData) (domain.AttackSurface, bool) {
	rec := infra.DNS
	if rec == nil || len(rec.Nameservers) == 0 {
		return domain.AttackSurface{}, false
	}

	provider, managed := providers.ClassifyNameservers(rec.Nameservers)
	severity, score, weight := domain.SeverityMedium, 50, 0.6
	if !managed {
		severity, score, weight = domain.SeverityHigh, 70, 0.75
	}

	return domain.AttackSurface{
		Vector:         VectorDNSProvider,
		Value:          provider,
		Description:    fmt.Sprintf("DNS is served by %s", provider),
		PhishingTactic: "DNS configuration or security alert impersonating the provider",
		RiskSeverity:   severity,
		RiskScore:      score,
		Weight:         weight,
	}, true
}

func registrantSurface(infra domain.InfrastructureData) (domain.AttackSurface, bool) {
	reg := infra.Registration
	if reg == nil || (reg.RegistrantName == "" && reg.RegistrantEmail == "") {
		return domain.AttackSurface{}, false
	}

	severity, score, weight := domain.SeverityHigh, 70, 0.8
	if reg.RegistrantName != "" && reg.RegistrantEmail != "" {
		score, weight = 80, 0.85
	}

	value := reg.RegistrantName
	if value == "" {
		value = reg.RegistrantEmail
	}

	return domain.AttackSurface{
		Vector:         VectorRegistrant,
		Value:          value,
		Description:    "Registrant contact details are publicly visible in WHOIS",
		PhishingTactic: "Spear-phishing addressed to the named domain owner",
		RiskSeverity:   severity,
		RiskScore:      score,
		Weight:         weight,
	}, true
}

func hostingSurface(infra domain.InfrastructureData) (domain.AttackSurface, bool) {
	hosting := infra.Hosting
	if hosting == nil {
		return domain.AttackSurface{}, false
	}

	value := hosting.IPWhois.Org
	if value == "" {
		value = hosting.IPWhois.ISP
	}
	if value == "" {
		value = hosting.IPAddress
	}

	severity, score, weight := domain.SeverityMedium, 40, 0.5
	if hosting.IPWhois.IsVPN || hosting.IPWhois.IsProxy {
		severity, score, weight = domain.SeverityHigh, 65, 0.7
	}

	return domain.AttackSurface{
		Vector:         VectorHosting,
		Value:          value,
		Description:    fmt.Sprintf("Site is hosted on %s", value),
		PhishingTactic: "Billing or abuse notice impersonating the hosting provider",
		RiskSeverity:   severity,
		RiskScore:      score,
		Weight:         weight,
	}, true
}

func webServerSurface(infra domain.InfrastructureData) (domain.AttackSurface, bool) {
	ws := infra.WebServer
	if ws == nil || (ws.Server == "" && ws.Platform == "") {
		return domain.AttackSurface{}, false
	}

	value := ws.Platform
	if value == "" {
		value = ws.Server
	}

	severity, score, weight := domain.SeverityLow, 30, 0.35
	if ws.Platform != "" && ws.CDNProvider == "" {
		severity, score, weight = domain.SeverityMedium, 45, 0.5
	}

	return domain.AttackSurface{
		Vector:         VectorWebServer,
		Value:          value,
		Description:    fmt.Sprintf("Origin identifies itself as %s", value),
		PhishingTactic: "Maintenance or security-patch notice matching the real platform",
		RiskSeverity:   severity,
		RiskScore:      score,
		Weight:         weight,
	}, true
}
