package ports

import (
	"context"

	"domainscope/internal/domain"
)

// DNSLookup is the resolver adapter's fused answer. Records is nil when no
// record type produced anything. Notes carries per-record-type failure text;
// a failed type never fails the lookup as a whole.
type DNSLookup struct {
	Records *domain.DNSRecords
	DMARC   string
	Notes   []string
}

// DNSResolver issues the full set of record-type queries for a host.
type DNSResolver interface {
	Lookup(ctx context.Context, host string) DNSLookup
}

// RegistrationSource performs a WHOIS query and returns the parsed record.
// A nil record with nil error means the registry answered but nothing usable
// was extracted.
type RegistrationSource interface {
	Lookup(ctx context.Context, host string) (*domain.Registration, error)
}

// WebProber fingerprints the HTTPS origin from response headers.
type WebProber interface {
	Probe(ctx context.Context, host string) (*domain.WebServer, error)
}

// IPIntel looks up reputation data for a resolved IPv4 address.
type IPIntel interface {
	Lookup(ctx context.Context, ip string) (*domain.IPWhois, error)
}

// ScanService enqueues and tracks scans.
type ScanService interface {
	Enqueue(ctx context.Context, rawDomain string) (scanID string, err error)
	Status(ctx context.Context, scanID string) (status string, progress float64, err error)
}

// ReportService serves persisted scan reports.
type ReportService interface {
	Latest(ctx context.Context, registrable string) (domain.Report, error)
	ByScan(ctx context.Context, scanID string) (domain.Report, error)
}
