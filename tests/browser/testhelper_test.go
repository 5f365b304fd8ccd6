package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"

	web "radioclub/internal/adapters/http"
	"radioclub/internal/adapters/http/middleware"
	"radioclub/internal/adapters/storage"
	auditStore "radioclub/internal/adapters/storage/audit"
	featureFlagStore "radioclub/internal/adapters/storage/featureflag"
	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/application/orchestrators"
	"radioclub/internal/config"
)

const adminPassword = "club-admin-test"

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "reg.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(8)

	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	flags := featureFlagStore.NewSQLiteStore(db)
	stores := &web.Stores{
		RegistrationStore: registrationStore.NewSQLiteStore(db),
		FeatureFlagStore:  flags,
		AuditStore:        auditStore.NewSQLiteStore(db),
	}
	if err := orchestrators.ExecuteSeedFlags(context.Background(), orchestrators.SeedFlagsDeps{FlagStore: flags}); err != nil {
		t.Fatalf("failed to seed flags: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash admin password: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg := config.Config{
		Env:                "development",
		Choices:            append([]string(nil), config.DefaultChoices...),
		AdminPasswordHash:  string(hash),
		RateLimitPerSecond: 1000,
		TrustedOrigins:     []string{fmt.Sprintf("127.0.0.1:%d", port)},
	}
	mux, err := web.NewMux(cfg, stores, nil, nil)
	if err != nil {
		t.Fatalf("failed to build mux: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a page in a fresh context, so each visitor has its own cookies.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	ctx, err := a.Browser.NewContext()
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	page, err := ctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	return page
}

// newAdminPage creates a page that answers the Basic auth challenge.
func (a *testApp) newAdminPage(t *testing.T) playwright.Page {
	t.Helper()
	ctx, err := a.Browser.NewContext(playwright.BrowserNewContextOptions{
		HttpCredentials: &playwright.HttpCredentials{
			Username: middleware.AdminUser,
			Password: adminPassword,
		},
	})
	if err != nil {
		t.Fatalf("failed to create admin context: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	page, err := ctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	return page
}

// open navigates and fails the test on error.
func (a *testApp) open(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + path); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
}

// fill sets an input's value and fails the test on error.
func fill(t *testing.T, page playwright.Page, selector, value string) {
	t.Helper()
	if err := page.Locator(selector).Fill(value); err != nil {
		t.Fatalf("failed to fill %s: %v", selector, err)
	}
}

// textOf returns the inner text of the first match.
func textOf(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()
	text, err := page.Locator(selector).First().InnerText()
	if err != nil {
		t.Fatalf("failed to read %s: %v", selector, err)
	}
	return text
}
