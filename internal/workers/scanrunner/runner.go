package scanrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"domainscope/internal/ports"
	"domainscope/internal/services/recon"
)

// ScanProcessor performs the scan work for a job's scan id.
type ScanProcessor interface {
	Process(ctx context.Context, scanID string) error
}

// ReconProcessor runs the recon engine for a scan's target domain and
// persists the resulting report.
type ReconProcessor struct {
	Jobs    ports.JobRepository
	Scans   ports.ScanRepository
	Reports ports.ReportRepository
	Engine  *recon.Service
}

func (p ReconProcessor) Process(ctx context.Context, scanID string) error {
	target, err := p.Scans.Target(ctx, scanID)
	if err != nil {
		return err
	}
	if err := p.Jobs.UpdateScanProgress(ctx, scanID, 0.1); err != nil {
		return err
	}
	report := p.Engine.Run(ctx, target)
	if err := p.Jobs.UpdateScanProgress(ctx, scanID, 0.9); err != nil {
		return err
	}
	return p.Reports.Save(ctx, scanID, report)
}

// Run starts worker goroutines that claim queued jobs and process them.
func Run(ctx context.Context, repo ports.JobRepository, processor ScanProcessor, concurrency int, pollInterval time.Duration, log *zap.SugaredLogger) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan ports.ScanJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						log.Warnw("job claim failed", "error", err)
						break
					}
					if !found {
						break
					}
					jobsCh <- job
				}
			}
		}
	}()

	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				if err := processor.Process(ctx, job.ScanID); err != nil {
					_ = repo.MarkFailed(ctx, job.ID, err.Error())
					log.Warnw("scan job failed", "worker", idx, "job", job.ID, "error", err)
					continue
				}
				if err := repo.MarkCompleted(ctx, job.ID); err != nil {
					log.Warnw("scan job completion update failed", "worker", idx, "job", job.ID, "error", err)
				}
			}
		}(i)
	}
}

// ProcessInline starts and processes a specific scan synchronously using the
// same processor logic as the background workers.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor ScanProcessor, scanID string) error {
	jobID, err := repo.StartJobForScan(ctx, scanID)
	if err != nil {
		return err
	}
	if err := processor.Process(ctx, scanID); err != nil {
		_ = repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}
	return repo.MarkCompleted(ctx, jobID)
}
