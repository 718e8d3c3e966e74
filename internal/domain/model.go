package domain

import "time"

// Core domain models. Every top-level section of InfrastructureData is a
// pointer: a nil section means the source produced nothing, which consumers
// must read as "unknown", never as a verified negative.

type InfrastructureData struct {
	Domain       string        `json:"domain"`
	Timestamp    time.Time     `json:"timestamp"`
	Registration *Registration `json:"domain_registration,omitempty"`
	DNS          *DNSRecords   `json:"dns,omitempty"`
	Hosting      *Hosting      `json:"hosting,omitempty"`
	WebServer    *WebServer    `json:"web_server,omitempty"`
	Email        *EmailAuth    `json:"email,omitempty"`
	Metadata     Metadata      `json:"metadata"`
}

// Registration is the normalized WHOIS registration record. Date fields stay
// raw strings: registries do not agree on a format.
type Registration struct {
	Registrar         string   `json:"registrar,omitempty"`
	CreatedDate       string   `json:"creation_date,omitempty"`
	ExpirationDate    string   `json:"expiration_date,omitempty"`
	UpdatedDate       string   `json:"updated_date,omitempty"`
	RegistrantName    string   `json:"registrant_name,omitempty"`
	RegistrantOrg     string   `json:"registrant_organization,omitempty"`
	RegistrantEmail   string   `json:"registrant_email,omitempty"`
	RegistrantCountry string   `json:"registrant_country,omitempty"`
	AdminName         string   `json:"admin_name,omitempty"`
	TechName          string   `json:"tech_name,omitempty"`
	Status            []string `json:"status,omitempty"`
	Nameservers       []string `json:"nameservers,omitempty"`
	DNSSEC            string   `json:"dnssec,omitempty"`
}

type MXRecord struct {
	Priority uint16 `json:"priority"`
	Exchange string `json:"exchange"`
}

type DNSRecords struct {
	Nameservers []string   `json:"nameservers,omitempty"`
	A           []string   `json:"a_records,omitempty"`
	AAAA        []string   `json:"aaaa_records,omitempty"`
	MX          []MXRecord `json:"mx_records,omitempty"`
	TXT         []string   `json:"txt_records,omitempty"`
	SOA         string     `json:"soa,omitempty"`
	NSProvider  string     `json:"ns_provider,omitempty"`
}

// IPWhois carries IP-intelligence attributes for the primary address.
// Latitude/longitude are pointers so an absent coordinate is not rendered
// as a real position at 0,0.
type IPWhois struct {
	ASN         string   `json:"asn,omitempty"`
	Org         string   `json:"organization,omitempty"`
	ISP         string   `json:"isp,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"country_code,omitempty"`
	Continent   string   `json:"continent,omitempty"`
	City        string   `json:"city,omitempty"`
	Region      string   `json:"region,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	IsVPN       bool     `json:"is_vpn"`
	IsProxy     bool     `json:"is_proxy"`
}

type Hosting struct {
	IPAddress string   `json:"ip_address"`
	IPv6      []string `json:"ipv6_addresses,omitempty"`
	IPWhois   IPWhois  `json:"ip_whois"`
}

type WebServer struct {
	Server      string `json:"server,omitempty"`
	Platform    string `json:"platform,omitempty"`
	CDNProvider string `json:"cdn_provider,omitempty"`
}

type EmailAuth struct {
	MXProvider  string   `json:"mx_provider,omitempty"`
	HasSPF      bool     `json:"has_spf"`
	SPFRecord   string   `json:"spf_record,omitempty"`
	HasDMARC    bool     `json:"has_dmarc"`
	DMARCRecord string   `json:"dmarc_record,omitempty"`
	MXProviders []string `json:"mx_providers,omitempty"`
}

type Metadata struct {
	DataSources      []string `json:"data_sources"`
	CollectionMethod string   `json:"collection_method"`
	Notes            []string `json:"notes,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// Severity labels shared by risk scores and attack surfaces.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// RiskScore is one security category's posture. Score is the signed rule sum
// capped at 100; a negative sum stays negative and classifies as "info".
type RiskScore struct {
	Category      string   `json:"category"`
	Score         int      `json:"score"`
	Severity      string   `json:"severity"`
	Weight        float64  `json:"weight"`
	Findings      []string `json:"findings"`
	AttackVectors []string `json:"attackVectors"`
}

// AttackSurface is one ranked pretext angle. Its risk fields are computed by
// their own heuristics and deliberately do not reuse RiskScore numbers.
type AttackSurface struct {
	Vector         string  `json:"vector"`
	Value          string  `json:"value"`
	Description    string  `json:"description"`
	PhishingTactic string  `json:"phishingTactic"`
	RiskSeverity   string  `json:"riskSeverity"`
	RiskScore      int     `json:"riskScore"`
	Weight         float64 `json:"weight"`
}

// Report is the full artifact for one scan: the fused infrastructure record
// plus both scoring passes.
type Report struct {
	Result         InfrastructureData `json:"result"`
	RiskScores     []RiskScore        `json:"riskScores"`
	AttackSurfaces []AttackSurface    `json:"attackSurfaces"`
}
