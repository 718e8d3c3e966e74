package whois

import (
	"strings"

	"domainscope/internal/domain"
)

// fieldRule routes a key/value line into the registration record. Rules are
// evaluated top to bottom per line; the first match wins. Keys arrive
// lowercased and trimmed.
type fieldRule struct {
	match func(key string) bool
	apply func(rec *domain.Registration, value string)
}

func keyHas(needles ...string) func(string) bool {
	return func(key string) bool {
		for _, n := range needles {
			if strings.Contains(key, n) {
				return true
			}
		}
		return false
	}
}

func keyHasAll(needles ...string) func(string) bool {
	return func(key string) bool {
		for _, n := range needles {
			if !strings.Contains(key, n) {
				return false
			}
		}
		return true
	}
}

var fieldRules = []fieldRule{
	{keyHasAll("registrant", "email"), func(r *domain.Registration, v string) {
		if r.RegistrantEmail == "" {
			r.RegistrantEmail = v
		}
	}},
	{keyHasAll("registrant", "organi"), func(r *domain.Registration, v string) {
		if r.RegistrantOrg == "" {
			r.RegistrantOrg = v
		}
	}},
	{keyHasAll("registrant", "country"), func(r *domain.Registration, v string) {
		if r.RegistrantCountry == "" {
			r.RegistrantCountry = v
		}
	}},
	{keyHasAll("registrant", "name"), func(r *domain.Registration, v string) {
		if r.RegistrantName == "" {
			r.RegistrantName = v
		}
	}},
	{keyHasAll("admin", "name"), func(r *domain.Registration, v string) {
		if r.AdminName == "" {
			r.AdminName = v
		}
	}},
	{keyHasAll("tech", "name"), func(r *domain.Registration, v string) {
		if r.TechName == "" {
			r.TechName = v
		}
	}},
	// "registrar" also appears in keys like "Registrar URL" and
	// "Registrar Abuse Contact Email"; those are not the registrar name.
	{func(key string) bool {
		return strings.Contains(key, "registrar") &&
			!strings.Contains(key, "url") &&
			!strings.Contains(key, "iana") &&
			!strings.Contains(key, "abuse") &&
			!strings.Contains(key, "whois")
	}, func(r *domain.Registration, v string) {
		if r.Registrar == "" {
			r.Registrar = v
		}
	}},
	{keyHas("creation date", "created", "registered on", "registration time"), func(r *domain.Registration, v string) {
		if r.CreatedDate == "" {
			r.CreatedDate = v
		}
	}},
	{keyHas("expiry", "expiration", "expires", "paid-till"), func(r *domain.Registration, v string) {
		if r.ExpirationDate == "" {
			r.ExpirationDate = v
		}
	}},
	{keyHas("updated", "modified", "changed", "last update"), func(r *domain.Registration, v string) {
		if r.UpdatedDate == "" {
			r.UpdatedDate = v
		}
	}},
	{keyHas("name server", "nameserver", "nserver"), func(r *domain.Registration, v string) {
		ns := strings.ToLower(strings.Fields(v)[0])
		for _, existing := range r.Nameservers {
			if existing == ns {
				return
			}
		}
		r.Nameservers = append(r.Nameservers, ns)
	}},
	{keyHas("status"), func(r *domain.Registration, v string) {
		// Registry lines append a policy URL after the status token.
		status := strings.Fields(v)[0]
		for _, existing := range r.Status {
			if existing == status {
				return
			}
		}
		r.Status = append(r.Status, status)
	}},
	{keyHas("dnssec"), func(r *domain.Registration, v string) {
		if r.DNSSEC == "" {
			r.DNSSEC = v
		}
	}},
}

// Parse converts raw WHOIS text into a normalized registration record using
// substring heuristics. Unmatched or malformed lines are dropped and it never
// fails. Returns nil when nothing at all was extracted.
func Parse(raw string) *domain.Registration {
	rec := &domain.Registration{}
	extracted := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, ">") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.ToLower(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		for _, rule := range fieldRules {
			if rule.match(key) {
				rule.apply(rec, value)
				extracted = true
				break
			}
		}
	}

	if !extracted {
		return nil
	}
	return rec
}
