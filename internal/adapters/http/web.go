package web

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"radioclub/internal/adapters/email"
	"radioclub/internal/adapters/http/middleware"
	"radioclub/internal/adapters/http/perf"
	"radioclub/internal/adapters/spreadsheet"
	auditStore "radioclub/internal/adapters/storage/audit"
	featureFlagStore "radioclub/internal/adapters/storage/featureflag"
	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/application/orchestrators"
	"radioclub/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	RegistrationStore registrationStore.Store
	FeatureFlagStore  featureFlagStore.Store
	AuditStore        auditStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global app configuration (set by NewMux)
var appConfig config.Config

// Global prefill cache (set by NewMux)
var prefill *middleware.PrefillCache

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global new-registration notifier (set by NewMux); nil sends nothing
var notifier orchestrators.RegistrationNotifier

// Global export writer
var exportWriter orchestrators.TableWriter = spreadsheet.NewXLSXWriter()

// csrfKey returns the configured key or, outside production, a random one.
func csrfKey(cfg config.Config) ([]byte, error) {
	if cfg.CSRFKey != nil {
		return cfg.CSRFKey, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_random", "hint", "set RADIOCLUB_CSRF_KEY so form tokens survive restarts")
	return key, nil
}

// NewMux wires HTTP handlers for the app.
// PRE: s has every store set; sender may be nil
func NewMux(cfg config.Config, s *Stores, collector *perf.Collector, sender email.Sender) (http.Handler, error) {
	stores = s
	appConfig = cfg
	perfCollector = collector
	prefill = middleware.NewPrefillCache(middleware.DefaultPrefillTTL)
	middleware.SecureCookies = cfg.IsProduction()
	notifier = nil
	if sender != nil && len(cfg.NotifyTo) > 0 {
		notifier = orchestrators.EmailNotifier{Sender: sender, From: cfg.NotifyFrom, To: cfg.NotifyTo}
	}

	key, err := csrfKey(cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, middleware.RequireAdmin(cfg.AdminPasswordHash))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, time.Second)

	// Timing -> RateLimit -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(key, cfg.IsProduction(), cfg.TrustedOrigins),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	), nil
}

// registerRoutes binds every page. Admin pages go through requireAdmin.
func registerRoutes(mux *http.ServeMux, requireAdmin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /{$}", handleFormPage)
	mux.HandleFunc("POST /{$}", handleSubmit)
	mux.HandleFunc("GET /edit", handleEditPage)
	mux.HandleFunc("POST /edit", handleEditLookup)

	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }
	mux.Handle("GET /admin", admin(handleAdmin))
	mux.Handle("POST /admin", admin(handleAdminToggle))
	mux.Handle("GET /download", admin(handleDownload))
	mux.Handle("GET /preview", admin(handlePreview))
	mux.Handle("POST /delete_one", admin(handleDeleteOne))
	mux.Handle("POST /delete_all", admin(handleDeleteAll))
}
