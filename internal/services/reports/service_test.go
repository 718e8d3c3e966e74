package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainscope/internal/domain"
)

type fakeReportRepo struct {
	found      bool
	report     domain.Report
	err        error
	lastDomain string
}

func (f *fakeReportRepo) Save(ctx context.Context, scanID string, report domain.Report) error {
	return nil
}

func (f *fakeReportRepo) GetByScan(ctx context.Context, scanID string) (bool, domain.Report, error) {
	return f.found, f.report, f.err
}

func (f *fakeReportRepo) GetLatestByDomain(ctx context.Context, registrable string) (bool, domain.Report, error) {
	f.lastDomain = registrable
	return f.found, f.report, f.err
}

func TestLatestNormalizesDomain(t *testing.T) {
	repo := &fakeReportRepo{found: true, report: domain.Report{
		Result: domain.InfrastructureData{Domain: "example.com"},
	}}
	svc := New(repo)

	report, err := svc.Latest(context.Background(), "https://www.sub.example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "example.com", repo.lastDomain)
	assert.Equal(t, "example.com", report.Result.Domain)
}

func TestLatestNotFound(t *testing.T) {
	svc := New(&fakeReportRepo{found: false})
	_, err := svc.Latest(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestByScanNotFound(t *testing.T) {
	svc := New(&fakeReportRepo{found: false})
	_, err := svc.ByScan(context.Background(), "scan-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestByScanRepoError(t *testing.T) {
	svc := New(&fakeReportRepo{err: errors.New("db down")})
	_, err := svc.ByScan(context.Background(), "scan-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
