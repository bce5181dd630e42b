// Package web serves the activity dashboard API: JSON endpoints over the
// latest report plus an SSE stream of report history.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/aicontext"
)

const reportPollInterval = 3 * time.Second

type reportReader interface {
	ReportsAfter(index uint64) ([]domain.ActivityReportRecord, error)
}

// Server exposes the dashboard HTTP API.
type Server struct {
	Addr   string
	Store  reportReader
	logger *zap.Logger

	mu     sync.RWMutex
	latest domain.ActivityReport
	loaded bool
}

// NewServer creates a dashboard server over the report store.
func NewServer(addr string, store reportReader, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Store: store, logger: logger}
}

// Publish replaces the report served by the JSON endpoints.
func (s *Server) Publish(report domain.ActivityReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = report
	s.loaded = true
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/activity", s.handleReportField(func(r domain.ActivityReport) any { return r.Events }))
	mux.HandleFunc("/api/routes", s.handleReportField(func(r domain.ActivityReport) any { return r.Routes }))
	mux.HandleFunc("/api/memory", s.handleReportField(func(r domain.ActivityReport) any { return r.Memory }))
	mux.HandleFunc("/api/kpi", s.handleReportField(func(r domain.ActivityReport) any { return r.Kpi }))
	mux.HandleFunc("/api/feedrift", s.handleReportField(func(r domain.ActivityReport) any { return r.FeeDrift }))
	mux.HandleFunc("/api/anomaly", s.handleReportField(func(r domain.ActivityReport) any { return r.Anomaly }))
	mux.HandleFunc("/api/ai/context", s.handleAIContext)
	mux.HandleFunc("/reports/stream", s.handleReportStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic ACME certificates,
// plus a port-80 server for HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("http (acme) server shutdown error", zap.Error(err))
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("https server shutdown error", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("http (acme) server error", zap.Error(err))
		}
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleReportField(pick func(domain.ActivityReport) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		report, loaded := s.latest, s.loaded
		s.mu.RUnlock()
		if !loaded {
			http.Error(w, "no report available yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, pick(report), s.logger)
	}
}

func (s *Server) handleAIContext(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	report, loaded := s.latest, s.loaded
	s.mu.RUnlock()
	if !loaded {
		http.Error(w, "no report available yet", http.StatusServiceUnavailable)
		return
	}

	mode := aicontext.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = aicontext.ModeOverview
	}
	if !aicontext.ValidMode(mode) {
		http.Error(w, fmt.Sprintf("unsupported mode %q", mode), http.StatusBadRequest)
		return
	}

	writeJSON(w, aicontext.Project(mode, report, aicontext.Filters{}), s.logger)
}

func (s *Server) handleReportStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "report store not available", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// comment heartbeat keeps proxies from dropping the connection
	heartbeat := time.NewTicker(20 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(reportPollInterval)
	defer pollTicker.Stop()

	lastIndex := parseLastEventID(r.Header.Get("Last-Event-ID"))
	sendReports := func() error {
		records, err := s.Store.ReportsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Report)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", record.Index)
			fmt.Fprintf(w, "event: report\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendReports(); err != nil {
		s.logger.Warn("report stream initial load failed", zap.Error(err))
		http.Error(w, "failed to load reports", http.StatusInternalServerError)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendReports(); err != nil {
				s.logger.Warn("report stream poll failed", zap.Error(err))
				return
			}
		}
	}
}

func parseLastEventID(header string) uint64 {
	if header == "" {
		return 0
	}
	id, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func writeJSON(w http.ResponseWriter, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}
