// cmd/web/main.go
//
// Curbside – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (host-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate configuration (YAML → CURBSIDE_* env → Vault refs).
//
//  4. Open the session DB and build the session store.
//
//  5. Build the backend API client with the service credential.
//
//  6. Construct the view engine and each component, register them, and
//     mount every component's router under its name.
//
//  7. Wrap the mux with request enrichment, security headers, and
//     ForceHTTPS, expose Prometheus /metrics, and serve with sane
//     timeouts.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/curbsidehq/curbside-web/internal/api"
	"github.com/curbsidehq/curbside-web/internal/component"
	"github.com/curbsidehq/curbside-web/internal/config"
	"github.com/curbsidehq/curbside-web/internal/database"
	"github.com/curbsidehq/curbside-web/internal/logger"
	"github.com/curbsidehq/curbside-web/internal/middleware"
	"github.com/curbsidehq/curbside-web/internal/requestinfo"
	"github.com/curbsidehq/curbside-web/internal/server"
	"github.com/curbsidehq/curbside-web/internal/session"
	"github.com/curbsidehq/curbside-web/internal/view"

	"github.com/curbsidehq/curbside-web/components/account"
	"github.com/curbsidehq/curbside-web/components/admin"
	"github.com/curbsidehq/curbside-web/components/auth"
	"github.com/curbsidehq/curbside-web/components/catering"
)

const serverEnvPath = "/usr/local/etc/curbside/global.env"

// loadEnv prefers the host-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load(context.Background())
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Session DB ──────────────────────────────────────────────────
	//
	logOut.Info("connecting to session DB …")
	db, err := database.Open(cfg.Sessions.DSN)
	if err != nil {
		logOut.Fatalf("connect session DB: %v", err)
	}
	defer db.Close()
	logOut.Info("session DB online")

	sessions := session.NewStore(db, cfg.Sessions.CookieName, logOut)

	//
	// ── 3.  Backend API client ──────────────────────────────────────────
	//
	backend, err := api.New(cfg.Backend.BaseURL, nil, logOut)
	if err != nil {
		logOut.Fatalf("backend client: %v", err)
	}
	backend = backend.WithToken(cfg.Backend.ServiceToken)

	//
	// ── 4.  GeoIP enrichment (optional) ─────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.CityDBPath); err != nil {
		logOut.Warnf("geoip disabled: %v", err)
	}

	//
	// ── 5.  Components ──────────────────────────────────────────────────
	//
	views := view.NewEngine(rootDir)

	component.Register(catering.New(backend, views, sessions, logOut))
	component.Register(auth.New(backend, views, sessions, logOut))
	component.Register(account.New(backend, views, sessions, logOut))
	component.Register(admin.New(backend, views, sessions, logOut))

	mux := chi.NewRouter()
	mux.Use(requestinfo.Enrich)
	mux.Use(middleware.Security)
	for _, c := range component.All() {
		mux.Mount("/"+c.Name(), c.Routes())
		logOut.Infow("component mounted", "name", c.Name())
	}
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catering", http.StatusSeeOther)
	})

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	var root http.Handler = mux
	if cfg.HTTP.ForceHTTPS {
		root = middleware.ForceHTTPS(root)
	}

	srv := server.New(cfg.HTTP.ListenAddr, root)
	logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
