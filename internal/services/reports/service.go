package reports

import (
	"context"

	"domainscope/internal/domain"
	"domainscope/internal/ports"
	"domainscope/internal/services/recon"
)

type Service struct {
	repo ports.ReportRepository
}

func New(repo ports.ReportRepository) *Service { return &Service{repo: repo} }

func (s *Service) Latest(ctx context.Context, registrable string) (domain.Report, error) {
	found, report, err := s.repo.GetLatestByDomain(ctx, recon.Registrable(recon.Normalize(registrable)))
	if err != nil {
		return domain.Report{}, err
	}
	if !found {
		return domain.Report{}, ErrNotFound
	}
	return report, nil
}

func (s *Service) ByScan(ctx context.Context, scanID string) (domain.Report, error) {
	found, report, err := s.repo.GetByScan(ctx, scanID)
	if err != nil {
		return domain.Report{}, err
	}
	if !found {
		return domain.Report{}, ErrNotFound
	}
	return report, nil
}

var ErrNotFound = errString("not found")

type errString string

func (e errString) Error() string { return string(e) }
