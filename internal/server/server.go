package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/activity"
	"github.com/maxbolgarin/gitpulse/internal/provider"
	"github.com/maxbolgarin/gitpulse/internal/report"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ViewerHeader identifies a dashboard viewer for the stale-result guard
const ViewerHeader = "X-Viewer-ID"

// Server serves the dashboard pages and its JSON API
type Server struct {
	fetcher  *provider.Fetcher
	reporter *report.Reporter
	guard    *activity.Guard
	pages    *template.Template
	router   *mux.Router
	loc      *time.Location
	now      func() time.Time

	config Config
	log    logze.Logger
	server *servex.Server
}

// New creates a new dashboard server
func New(cfg Config, fetcher *provider.Fetcher, reporter *report.Reporter) (*Server, error) {
	s, err := newServer(cfg, fetcher, reporter)
	if err != nil {
		return nil, err
	}

	server, err := servex.NewServer(
		servex.WithReadTimeout(s.config.Timeout),
		servex.WithIdleTimeout(s.config.Timeout*2),
		servex.WithLogger(s.log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(s.config.Certificate),
	)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create server")
	}

	// routing and path variables are handled by the dashboard router
	server.HandleFunc("/{path:.*}", s.router.ServeHTTP)
	s.server = server

	return s, nil
}

func newServer(cfg Config, fetcher *provider.Fetcher, reporter *report.Reporter) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, erro.Wrap(err, "load location")
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, erro.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		fetcher:  fetcher,
		reporter: reporter,
		guard:    activity.NewGuard(cfg.ViewerIdleTimeout),
		pages:    pages,
		loc:      loc,
		now:      time.Now,
		config:   cfg,
		log:      logze.With("module", "server"),
	}
	s.router = s.routes()

	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/activity", s.handleActivity).Methods(http.MethodGet)
	api.HandleFunc("/activity/latest", s.handleLatestActivity).Methods(http.MethodGet)
	api.HandleFunc("/activity/export", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.handleProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/stats", s.handleProjectStats).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id:[0-9]+}/commits/{sha}", s.handleCommit).Methods(http.MethodGet)
	api.HandleFunc("/users", s.handleUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/contributions", s.handleContributions).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/generate-report", s.handleGenerateReport).Methods(http.MethodPost)
	api.HandleFunc("/analyze-commit", s.handleAnalyzeCommit).Methods(http.MethodPost)
	api.HandleFunc("/text-to-speech", s.handleTextToSpeech).Methods(http.MethodPost)

	r.HandleFunc("/", s.handleActivityPage).Methods(http.MethodGet)
	r.HandleFunc("/activity", s.handleActivityPage).Methods(http.MethodGet)
	r.HandleFunc("/activity/report", s.handleReportPage).Methods(http.MethodGet)

	return r
}

// Handler returns the dashboard router without health and metrics endpoints
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the dashboard server
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting server", "address", s.config.Address, "https", s.config.EnableHTTPS)
	if s.config.EnableHTTPS {
		return s.server.StartHTTPS(s.config.Address)
	}
	return s.server.StartHTTP(s.config.Address)
}

// Stop stops the dashboard server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
