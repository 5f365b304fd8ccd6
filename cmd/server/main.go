package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "radioclub/internal/adapters/email"
	web "radioclub/internal/adapters/http"
	"radioclub/internal/adapters/http/perf"
	"radioclub/internal/adapters/storage"
	auditStorePkg "radioclub/internal/adapters/storage/audit"
	featureFlagStorePkg "radioclub/internal/adapters/storage/featureflag"
	registrationStorePkg "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/application/orchestrators"
	"radioclub/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is normal; real environment variables win either way.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		RegistrationStore: registrationStorePkg.NewSQLiteStore(timedDB),
		FeatureFlagStore:  featureFlagStorePkg.NewSQLiteStore(timedDB),
		AuditStore:        auditStorePkg.NewSQLiteStore(timedDB),
	}

	// Both flags start open when their rows are missing.
	if err := orchestrators.ExecuteSeedFlags(context.Background(), orchestrators.SeedFlagsDeps{FlagStore: stores.FeatureFlagStore}); err != nil {
		log.Fatalf("failed to seed flags: %v", err)
	}

	var sender emailPkg.Sender
	switch {
	case cfg.ResendKey != "":
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.NotifyFrom)
		log.Println("Email notifications configured (Resend)")
	case len(cfg.NotifyTo) > 0:
		sender = emailPkg.NewLogSender()
		log.Println("Email notifications configured (log only - set RADIOCLUB_RESEND_KEY for real delivery)")
	}

	if cfg.AdminPasswordHash == "" {
		log.Println("WARNING: RADIOCLUB_ADMIN_PASSWORD_HASH is not set - admin pages are open to anyone")
	}

	handler, err := web.NewMux(cfg, stores, collector, sender)
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Radio club %s starting on %s (env=%s, schema=%d)", version, cfg.Addr, cfg.Env, storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
