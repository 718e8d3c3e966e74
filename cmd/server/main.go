package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"domainscope/internal/adapters/dnsquery"
	httpadapter "domainscope/internal/adapters/http"
	"domainscope/internal/adapters/ipintel"
	pg "domainscope/internal/adapters/postgres"
	"domainscope/internal/adapters/webprobe"
	"domainscope/internal/adapters/whois"
	"domainscope/internal/config"
	"domainscope/internal/ports"
	reconsvc "domainscope/internal/services/recon"
	reportsvc "domainscope/internal/services/reports"
	scansvc "domainscope/internal/services/scans"
	"domainscope/internal/workers/scanrunner"
)

func main() {
	cfg, err := config.Load()

	var logger *zap.Logger
	if cfg.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err != nil {
		log.Warnw("config incomplete", "error", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("db connect failed", "error", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalw("migrations failed", "error", err)
	}

	var _ ports.DomainRepository = db
	var _ ports.ScanRepository = db
	var _ ports.ReportRepository = db
	var _ ports.JobRepository = db

	engine := reconsvc.New(
		dnsquery.New(cfg.DNSServer, cfg.DNSFallback, log),
		whois.NewSource(log),
		webprobe.New(log),
		ipintel.New(cfg.IPIntelURL, log),
		log,
	)

	scans := scansvc.New(db, db)
	reports := reportsvc.New(db)
	processor := scanrunner.ReconProcessor{Jobs: db, Scans: db, Reports: db, Engine: engine}

	srv := httpadapter.New(scans, reports, db, processor, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.ScanWorkers > 0 {
		go scanrunner.Run(ctx, db, processor, cfg.ScanWorkers, 500*time.Millisecond, log)
		log.Infow("scan workers started", "count", cfg.ScanWorkers)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Infow("listening", "addr", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Infow("shutting down", "signal", sig.String())
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatalw("server error", "error", err)
	}
}
