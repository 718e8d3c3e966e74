package recon

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Normalize reduces free-form input ("HTTPS://WWW.Example.com/path") to a
// bare lowercase hostname ("example.com"): scheme stripped, leading www.
// stripped, path/query/fragment stripped.
func Normalize(raw string) string {
	host := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(host, sep); i >= 0 {
			host = host[:i]
		}
	}
	host = strings.TrimPrefix(host, "www.")
	return strings.TrimSuffix(host, ".")
}

// Registrable returns the eTLD+1 for a normalized host, used to key stored
// reports. Falls back to the host itself for names the public suffix list
// cannot split.
func Registrable(host string) string {
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
