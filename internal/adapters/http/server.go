// Package httpadapter exposes the scan engine over HTTP. Partial data
// unavailability is never an HTTP error: only malformed input produces a
// 4xx, and only an unexpected internal failure produces a 5xx.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"domainscope/internal/ports"
	reportsvc "domainscope/internal/services/reports"
	"domainscope/internal/workers/scanrunner"
)

const defaultWaitTimeout = 30 * time.Second

type Server struct {
	scans     ports.ScanService
	reports   ports.ReportService
	jobs      ports.JobRepository
	processor scanrunner.ScanProcessor
	validate  *validator.Validate
	log       *zap.SugaredLogger
}

func New(scans ports.ScanService, reports ports.ReportService, jobs ports.JobRepository, processor scanrunner.ScanProcessor, log *zap.SugaredLogger) *Server {
	return &Server{
		scans:     scans,
		reports:   reports,
		jobs:      jobs,
		processor: processor,
		validate:  validator.New(),
		log:       log,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Post("/scans", s.handleCreateScan)
	r.Get("/scans/{id}", s.handleScanStatus)
	r.Get("/reports/{domain}", s.handleLatestReport)
	return r
}

type scanRequest struct {
	Domain string `json:"domain" validate:"required,min=1"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a string \"domain\" field")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "\"domain\" is required")
		return
	}

	scanID, err := s.scans.Enqueue(r.Context(), req.Domain)
	if err != nil {
		s.internalError(w, "enqueue scan", err)
		return
	}

	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, map[string]string{"scan_id": scanID})
		return
	}

	timeout := defaultWaitTimeout
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := scanrunner.ProcessInline(ctx, s.jobs, s.processor, scanID); err != nil {
		s.internalError(w, "process scan", err)
		return
	}
	report, err := s.reports.ByScan(ctx, scanID)
	if err != nil {
		s.internalError(w, "load report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "id")
	status, progress, err := s.scans.Status(r.Context(), scanID)
	if err != nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       scanID,
		"status":   status,
		"progress": progress,
	})
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	report, err := s.reports.Latest(r.Context(), domain)
	if err != nil {
		if errors.Is(err, reportsvc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no report for domain")
			return
		}
		s.internalError(w, "load latest report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// recoverer converts an uncaught panic into a generic failure response,
// distinct from validation errors.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if s.log != nil {
					s.log.Errorw("request panicked", "path", r.URL.Path, "panic", rec)
				}
				writeError(w, http.StatusInternalServerError, "internal failure")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	if s.log != nil {
		s.log.Errorw("request failed", "op", op, "error", err)
	}
	writeError(w, http.StatusInternalServerError, "internal failure")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
