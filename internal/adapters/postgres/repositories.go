package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"domainscope/internal/domain"
)

var ErrNotFound = errString("not found")

type errString string

func (e errString) Error() string { return string(e) }

// DomainRepository

func (db *DB) GetOrCreate(ctx context.Context, registrable string) (string, error) {
	registrable = strings.ToLower(registrable)
	var id string
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO domains (registrable_domain)
        VALUES ($1)
        ON CONFLICT (registrable_domain) DO UPDATE SET registrable_domain = EXCLUDED.registrable_domain
        RETURNING id
    `, registrable).Scan(&id)
	return id, err
}

// ScanRepository

func (db *DB) Create(ctx context.Context, domainID string, target string) (string, error) {
	scanID := uuid.NewString()
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO scans (id, domain_id, target, status, progress)
        VALUES ($1, $2, $3, 'queued', 0)
    `, scanID, domainID, target)
	if err != nil {
		return "", err
	}
	_, err = db.Pool.Exec(ctx, `INSERT INTO scan_jobs (scan_id) VALUES ($1)`, scanID)
	return scanID, err
}

func (db *DB) Status(ctx context.Context, scanID string) (string, float64, error) {
	var status string
	var progress float64
	err := db.Pool.QueryRow(ctx, `SELECT status, progress FROM scans WHERE id = $1`, scanID).Scan(&status, &progress)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	return status, progress, err
}

func (db *DB) Target(ctx context.Context, scanID string) (string, error) {
	var target string
	err := db.Pool.QueryRow(ctx, `SELECT target FROM scans WHERE id = $1`, scanID).Scan(&target)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return target, err
}

// ReportRepository

func (db *DB) Save(ctx context.Context, scanID string, report domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx, `
        INSERT INTO reports (scan_id, domain_id, report)
        SELECT s.id, s.domain_id, $2::jsonb FROM scans s WHERE s.id = $1
    `, scanID, payload)
	return err
}

func (db *DB) GetByScan(ctx context.Context, scanID string) (bool, domain.Report, error) {
	return db.fetchReport(ctx, `
        SELECT report FROM reports WHERE scan_id = $1
        ORDER BY created_at DESC LIMIT 1
    `, scanID)
}

func (db *DB) GetLatestByDomain(ctx context.Context, registrable string) (bool, domain.Report, error) {
	return db.fetchReport(ctx, `
        SELECT r.report FROM reports r
        JOIN domains d ON d.id = r.domain_id
        WHERE d.registrable_domain = $1
        ORDER BY r.created_at DESC LIMIT 1
    `, strings.ToLower(registrable))
}

func (db *DB) fetchReport(ctx context.Context, query string, arg string) (bool, domain.Report, error) {
	var report domain.Report
	var payload []byte
	err := db.Pool.QueryRow(ctx, query, arg).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, report, nil
	}
	if err != nil {
		return false, report, err
	}
	if err := json.Unmarshal(payload, &report); err != nil {
		return false, report, err
	}
	return true, report, nil
}
