package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/config"
	"github.com/nawedy/automatiq/internal/database"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/modules"
	"github.com/nawedy/automatiq/internal/report"
)

type Server struct {
	cfg       *config.Config
	db        *database.DB
	hub       *Hub
	runner    *audit.Runner
	reportGen *report.Generator
	mux       *http.ServeMux
}

func New(cfg *config.Config, db *database.DB) (*Server, error) {
	hub := NewHub()

	var transport audit.AlertTransport = audit.NopTransport{}
	if cfg.Audit.AlertWebhookURL != "" {
		transport = audit.NewWebhookTransport(cfg.Audit.AlertWebhookURL)
	}

	notifier := audit.NewNotifier(db, transport, cfg.Audit)
	runner := audit.NewRunner(
		db,
		fetcher.NewClient(cfg.Fetch),
		modules.Registry(),
		notifier,
		hub,
		cfg.Audit,
	)

	reportGen := report.NewGenerator(db, cfg.Reports.Directory)
	if cfg.Reports.Font != "" {
		reportGen.SetFont(cfg.Reports.Font)
	}

	s := &Server{
		cfg:       cfg,
		db:        db,
		hub:       hub,
		runner:    runner,
		reportGen: reportGen,
		mux:       http.NewServeMux(),
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	slog.Info("starting server", "addr", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return recoveryMiddleware(securityHeaders(loggingMiddleware(s.mux)))
}

func (s *Server) registerRoutes() {
	// Audits
	s.mux.HandleFunc("/api/audits", s.handleAPIAudits)
	s.mux.HandleFunc("/api/audits/", s.handleAPIAudit)
	s.mux.HandleFunc("/api/modules", s.handleAPIModules)
	s.mux.HandleFunc("/api/stats", s.handleAPIStats)

	// Notifications
	s.mux.HandleFunc("/api/notifications", s.handleAPINotifications)
	s.mux.HandleFunc("/api/notifications/", s.handleAPINotification)

	// Alert preferences
	s.mux.HandleFunc("/api/alerts/prefs", s.handleAPIAlertPrefs)

	// WebSocket
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}
