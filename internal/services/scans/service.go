package scans

import (
	"context"

	"domainscope/internal/ports"
	"domainscope/internal/services/recon"
)

// Service registers scan requests against the stored domain catalog and
// tracks their lifecycle. The actual lookup work happens in the scan runner.
type Service struct {
	domains ports.DomainRepository
	repo    ports.ScanRepository
}

func New(domains ports.DomainRepository, repo ports.ScanRepository) *Service {
	return &Service{domains: domains, repo: repo}
}

func (s *Service) Enqueue(ctx context.Context, rawDomain string) (string, error) {
	host := recon.Normalize(rawDomain)
	domainID, err := s.domains.GetOrCreate(ctx, recon.Registrable(host))
	if err != nil {
		return "", err
	}
	return s.repo.Create(ctx, domainID, host)
}

func (s *Service) Status(ctx context.Context, scanID string) (string, float64, error) {
	return s.repo.Status(ctx, scanID)
}
