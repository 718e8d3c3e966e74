// Package providers holds the static classification tables that map raw
// nameserver, mail-exchanger, and HTTP-header values to provider names. The
// tables are keyed by literal substrings and are never mutated at runtime.
package providers

import "strings"

const (
	DefaultNS    = "Default / ISP nameservers"
	SelfHostedMX = "Self-hosted / custom"
)

// nsProviders maps a nameserver hostname fragment to a managed DNS provider.
var nsProviders = map[string]string{
	"cloudflare":        "Cloudflare",
	"awsdns":            "Amazon Route 53",
	"route53":           "Amazon Route 53",
	"azure-dns":         "Azure DNS",
	"googledomains":     "Google Cloud DNS",
	"google":            "Google Cloud DNS",
	"akam":              "Akamai Edge DNS",
	"ultradns":          "UltraDNS",
	"nsone":             "NS1",
	"dnsmadeeasy":       "DNS Made Easy",
	"domaincontrol":     "GoDaddy",
	"registrar-servers": "Namecheap",
	"markmonitor":       "MarkMonitor",
	"dns.he.net":        "Hurricane Electric",
	"digitalocean":      "DigitalOcean",
	"linode":            "Linode",
	"vultr":             "Vultr",
	"ovh":               "OVH",
	"gandi":             "Gandi",
	"wixdns":            "Wix",
	"squarespacedns":    "Squarespace",
	"worldnic":          "Network Solutions",
	"cscdns":            "CSC Global DNS",
}

// mxProviders maps a mail-exchanger hostname fragment to a mail provider.
var mxProviders = map[string]string{
	"aspmx":              "Google Workspace",
	"googlemail":         "Google Workspace",
	"google":             "Google Workspace",
	"protection.outlook": "Microsoft 365",
	"outlook":            "Microsoft 365",
	"pphosted":           "Proofpoint",
	"ppe-hosted":         "Proofpoint",
	"mimecast":           "Mimecast",
	"messagelabs":        "Symantec Email Security",
	"barracuda":          "Barracuda",
	"zoho":               "Zoho Mail",
	"fastmail":           "Fastmail",
	"messagingengine":    "Fastmail",
	"mailgun":            "Mailgun",
	"sendgrid":           "SendGrid",
	"amazonses":          "Amazon SES",
	"mail.protection":    "Microsoft 365",
	"secureserver":       "GoDaddy Email",
	"emailsrvr":          "Rackspace Email",
	"mxrecord.io":        "Proofpoint Essentials",
}

// cdnHeaders maps a response header (lowercased) whose presence identifies a
// CDN in front of the origin.
var cdnHeaders = map[string]string{
	"cf-ray":          "Cloudflare",
	"cf-cache-status": "Cloudflare",
	"x-amz-cf-id":     "Amazon CloudFront",
	"x-amz-cf-pop":    "Amazon CloudFront",
	"x-akamai-transformed": "Akamai",
	"x-akamai-request-id":  "Akamai",
	"x-fastly-request-id":  "Fastly",
	"x-cdn":           "CDN",
	"x-edge-location": "CDN",
}

// cdnServerValues maps a Server header fragment to a CDN.
var cdnServerValues = map[string]string{
	"cloudflare": "Cloudflare",
	"cloudfront": "Amazon CloudFront",
	"akamai":     "Akamai",
	"fastly":     "Fastly",
	"varnish":    "Varnish",
}

// platformValues maps a Server header fragment to a web platform. Ordered
// so that more specific fragments win over generic ones.
var platformValues = []struct {
	Fragment string
	Name     string
}{
	{"microsoft-iis", "Microsoft IIS"},
	{"iis", "Microsoft IIS"},
	{"litespeed", "LiteSpeed"},
	{"openresty", "OpenResty"},
	{"nginx", "Nginx"},
	{"apache", "Apache"},
	{"caddy", "Caddy"},
	{"gws", "Google Web Server"},
	{"cowboy", "Cowboy (Heroku)"},
}

// ClassifyNameservers returns the managed provider behind a nameserver set,
// or DefaultNS when no known provider fragment matches.
func ClassifyNameservers(nameservers []string) (name string, managed bool) {
	for _, ns := range nameservers {
		ns = strings.ToLower(ns)
		for fragment, provider := range nsProviders {
			if strings.Contains(ns, fragment) {
				return provider, true
			}
		}
	}
	return DefaultNS, false
}

// ClassifyMXHost classifies a single mail exchanger hostname.
func ClassifyMXHost(exchange string) (name string, known bool) {
	host := strings.ToLower(exchange)
	for fragment, provider := range mxProviders {
		if strings.Contains(host, fragment) {
			return provider, true
		}
	}
	return SelfHostedMX, false
}

// ClassifyMX classifies the whole MX set; the first known provider wins.
func ClassifyMX(exchanges []string) (name string, known bool) {
	for _, ex := range exchanges {
		if provider, ok := ClassifyMXHost(ex); ok {
			return provider, true
		}
	}
	return SelfHostedMX, false
}

// ClassifyCDN inspects response headers (keys lowercased by the caller) and
// the Server header value for CDN indicators.
func ClassifyCDN(headers map[string]string) string {
	for header, provider := range cdnHeaders {
		if _, ok := headers[header]; ok {
			return provider
		}
	}
	server := strings.ToLower(headers["server"])
	for fragment, provider := range cdnServerValues {
		if strings.Contains(server, fragment) {
			return provider
		}
	}
	return ""
}

// ClassifyPlatform identifies the web platform from a Server header value.
func ClassifyPlatform(server string) string {
	s := strings.ToLower(server)
	for _, p := range platformValues {
		if strings.Contains(s, p.Fragment) {
			return p.Name
		}
	}
	return ""
}
