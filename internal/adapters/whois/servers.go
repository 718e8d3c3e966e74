package whois

import (
	"net"
	"strings"
)

// DefaultServer answers referrals for TLDs missing from the table.
const DefaultServer = "whois.iana.org"

// tldServers maps a top-level label to its registry WHOIS server.
var tldServers = map[string]string{
	"com":  "whois.verisign-grs.com",
	"net":  "whois.verisign-grs.com",
	"org":  "whois.pir.org",
	"info": "whois.afilias.net",
	"biz":  "whois.nic.biz",
	"io":   "whois.nic.io",
	"co":   "whois.nic.co",
	"me":   "whois.nic.me",
	"us":   "whois.nic.us",
	"uk":   "whois.nic.uk",
	"de":   "whois.denic.de",
	"fr":   "whois.nic.fr",
	"nl":   "whois.domain-registry.nl",
	"eu":   "whois.eu",
	"ca":   "whois.cira.ca",
	"au":   "whois.auda.org.au",
	"jp":   "whois.jprs.jp",
	"br":   "whois.registro.br",
	"in":   "whois.registry.in",
	"ru":   "whois.tcinet.ru",
	"ch":   "whois.nic.ch",
	"it":   "whois.nic.it",
	"es":   "whois.nic.es",
	"se":   "whois.iis.se",
	"ai":   "whois.nic.ai",
	"sh":   "whois.nic.sh",
	"dev":  "whois.nic.google",
	"app":  "whois.nic.google",
	"page": "whois.nic.google",
	"xyz":  "whois.nic.xyz",
	"tv":   "whois.nic.tv",
	"cc":   "ccwhois.verisign-grs.com",
}

// ServerAddr resolves the WHOIS server address (host:43) for a domain from
// its final dot-segment, falling back to the default server.
func ServerAddr(domain string) string {
	tld := domain
	if i := strings.LastIndex(domain, "."); i >= 0 {
		tld = domain[i+1:]
	}
	server, ok := tldServers[strings.ToLower(tld)]
	if !ok {
		server = DefaultServer
	}
	return net.JoinHostPort(server, "43")
}
