package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainscope/internal/domain"
	"domainscope/internal/ports"
	reportsvc "domainscope/internal/services/reports"
)

type fakeScans struct {
	enqueueID  string
	enqueueErr error
	status     string
	progress   float64
	statusErr  error
	panics     bool
}

func (f *fakeScans) Enqueue(ctx context.Context, rawDomain string) (string, error) {
	if f.panics {
		panic("boom")
	}
	return f.enqueueID, f.enqueueErr
}

func (f *fakeScans) Status(ctx context.Context, scanID string) (string, float64, error) {
	return f.status, f.progress, f.statusErr
}

type fakeReports struct {
	report    domain.Report
	latestErr error
	byScanErr error
}

func (f *fakeReports) Latest(ctx context.Context, registrable string) (domain.Report, error) {
	return f.report, f.latestErr
}

func (f *fakeReports) ByScan(ctx context.Context, scanID string) (domain.Report, error) {
	return f.report, f.byScanErr
}

type fakeJobs struct {
	started   []string
	completed []string
	failed    map[string]string
}

func (f *fakeJobs) ClaimNext(ctx context.Context) (ports.ScanJob, bool, error) {
	return ports.ScanJob{}, false, nil
}
func (f *fakeJobs) MarkRunning(ctx context.Context, jobID string) error { return nil }
func (f *fakeJobs) UpdateScanProgress(ctx context.Context, scanID string, progress float64) error {
	return nil
}
func (f *fakeJobs) MarkCompleted(ctx context.Context, jobID string) error {
	f.completed = append(f.completed, jobID)
	return nil
}
func (f *fakeJobs) MarkFailed(ctx context.Context, jobID string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[jobID] = reason
	return nil
}
func (f *fakeJobs) StartJobForScan(ctx context.Context, scanID string) (string, error) {
	f.started = append(f.started, scanID)
	return "job-" + scanID, nil
}

type fakeProcessor struct {
	processed []string
	err       error
}

func (f *fakeProcessor) Process(ctx context.Context, scanID string) error {
	f.processed = append(f.processed, scanID)
	return f.err
}

func newTestServer(scans *fakeScans, reports *fakeReports, jobs *fakeJobs, proc *fakeProcessor) *Server {
	if scans == nil {
		scans = &fakeScans{enqueueID: "scan-1"}
	}
	if reports == nil {
		reports = &fakeReports{}
	}
	if jobs == nil {
		jobs = &fakeJobs{}
	}
	if proc == nil {
		proc = &fakeProcessor{}
	}
	return New(scans, reports, jobs, proc, nil)
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(nil, nil, nil, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateScanAsync(t *testing.T) {
	scans := &fakeScans{enqueueID: "scan-42"}
	proc := &fakeProcessor{}
	rec := do(t, newTestServer(scans, nil, nil, proc), http.MethodPost, "/scans", `{"domain":"example.com"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"scan_id":"scan-42"}`, rec.Body.String())
	assert.Empty(t, proc.processed, "async path must not run the scan inline")
}

func TestCreateScanWaitReturnsReport(t *testing.T) {
	scans := &fakeScans{enqueueID: "scan-42"}
	reports := &fakeReports{report: domain.Report{
		Result: domain.InfrastructureData{Domain: "example.com"},
	}}
	jobs := &fakeJobs{}
	proc := &fakeProcessor{}

	rec := do(t, newTestServer(scans, reports, jobs, proc), http.MethodPost,
		"/scans?wait=true&timeout=5", `{"domain":"example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"scan-42"}, proc.processed)
	assert.Equal(t, []string{"scan-42"}, jobs.started)
	assert.Equal(t, []string{"job-scan-42"}, jobs.completed)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "example.com", report.Result.Domain)
}

func TestCreateScanWaitProcessorFailure(t *testing.T) {
	jobs := &fakeJobs{}
	proc := &fakeProcessor{err: errors.New("target lookup failed")}

	rec := do(t, newTestServer(nil, nil, jobs, proc), http.MethodPost,
		"/scans?wait=true", `{"domain":"example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "target lookup failed", jobs.failed["job-scan-1"])
}

func TestCreateScanMalformedBody(t *testing.T) {
	rec := do(t, newTestServer(nil, nil, nil, nil), http.MethodPost, "/scans", `{"domain":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateScanMissingDomain(t *testing.T) {
	rec := do(t, newTestServer(nil, nil, nil, nil), http.MethodPost, "/scans", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestServer(nil, nil, nil, nil), http.MethodPost, "/scans", `{"domain":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanStatus(t *testing.T) {
	scans := &fakeScans{status: "running", progress: 0.5}
	rec := do(t, newTestServer(scans, nil, nil, nil), http.MethodGet, "/scans/scan-42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "scan-42", body["id"])
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, 0.5, body["progress"])
}

func TestScanStatusNotFound(t *testing.T) {
	scans := &fakeScans{statusErr: errors.New("no rows")}
	rec := do(t, newTestServer(scans, nil, nil, nil), http.MethodGet, "/scans/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestReportNotFound(t *testing.T) {
	reports := &fakeReports{latestErr: reportsvc.ErrNotFound}
	rec := do(t, newTestServer(nil, reports, nil, nil), http.MethodGet, "/reports/example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestReportFound(t *testing.T) {
	reports := &fakeReports{report: domain.Report{
		Result: domain.InfrastructureData{Domain: "example.com"},
	}}
	rec := do(t, newTestServer(nil, reports, nil, nil), http.MethodGet, "/reports/example.com", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "example.com", report.Result.Domain)
}

func TestPanicBecomesInternalFailure(t *testing.T) {
	scans := &fakeScans{panics: true}
	rec := do(t, newTestServer(scans, nil, nil, nil), http.MethodPost, "/scans", `{"domain":"example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal failure"}`, rec.Body.String())
}
