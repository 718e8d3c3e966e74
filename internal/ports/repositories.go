package ports

import (
	"context"

	"domainscope/internal/domain"
)

// DomainRepository stores and fetches domains by registrable domain (eTLD+1).
type DomainRepository interface {
	GetOrCreate(ctx context.Context, registrable string) (domainID string, err error)
}

// ScanRepository manages scan records.
type ScanRepository interface {
	Create(ctx context.Context, domainID string, target string) (scanID string, err error)
	Status(ctx context.Context, scanID string) (status string, progress float64, err error)
	Target(ctx context.Context, scanID string) (target string, err error)
}

// ReportRepository persists finished scan reports.
type ReportRepository interface {
	Save(ctx context.Context, scanID string, report domain.Report) error
	GetByScan(ctx context.Context, scanID string) (found bool, report domain.Report, err error)
	GetLatestByDomain(ctx context.Context, registrable string) (found bool, report domain.Report, err error)
}
