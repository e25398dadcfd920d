package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/skip2/go-qrcode"

	"urlshortener/internal/auth"
	"urlshortener/internal/shortcode"
	"urlshortener/internal/types"
)

const (
	maxBodyBytes  = 64 << 10
	qrSize        = 256
	healthTimeout = 2 * time.Second
)

// ClickSink receives raw redirect events for offline analytics.
type ClickSink interface {
	PushClick(event types.ClickEvent)
}

// Pinger is a dependency /health can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthCheck struct {
	name     string
	pinger   Pinger
	required bool
}

type Server struct {
	port            string
	baseURL         string
	shortener       *Shortener
	tokens          *auth.Tokens
	analytics       ClickSink
	shutdownTimeout time.Duration
	middleware      []func(http.Handler) http.Handler
	checks          []healthCheck
}

// NewServer builds the HTTP front end. analytics may be nil.
func NewServer(port, baseURL string, shortener *Shortener, tokens *auth.Tokens, analytics ClickSink) *Server {
	return &Server{
		port:            port,
		baseURL:         strings.TrimRight(baseURL, "/"),
		shortener:       shortener,
		tokens:          tokens,
		analytics:       analytics,
		shutdownTimeout: 5 * time.Second,
	}
}

// Use wraps every route with mw. The first registered middleware is outermost.
func (s *Server) Use(mw func(http.Handler) http.Handler) {
	s.middleware = append(s.middleware, mw)
}

func (s *Server) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		s.shutdownTimeout = d
	}
}

// AddHealthCheck registers p under name. A failing required check turns /health
// into 503; any other failure is reported as degraded with status 200.
func (s *Server) AddHealthCheck(name string, p Pinger, required bool) {
	s.checks = append(s.checks, healthCheck{name: name, pinger: p, required: required})
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /shortenUrl", s.tokens.Middleware(http.HandlerFunc(s.handleCreate)))
	mux.HandleFunc("GET /shortenUrl/{shortCode}", s.handleRedirect)
	mux.HandleFunc("GET /shortenUrl/info/{shortCode}", s.handleInfo)
	mux.Handle("GET /shortenUrl/stats/{shortCode}", s.tokens.Middleware(http.HandlerFunc(s.handleStats)))
	mux.HandleFunc("GET /shortenUrl/qr/{shortCode}", s.handleQR)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{shortCode}", s.handleRedirect)

	var h http.Handler = mux
	for i := len(s.middleware) - 1; i >= 0; i-- {
		h = s.middleware[i](h)
	}
	return h
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()
	slog.Info("HTTP server listening", "port", s.port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	m, err := s.shortener.CreateShortURL(r.Context(), req.OriginalURL, req.CustomCode, owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newMappingResponse(m, s.baseURL))
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("shortCode")
	m, err := s.shortener.ResolveAndRecordClick(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if s.analytics != nil {
		s.analytics.PushClick(types.ClickEvent{
			ShortCode: m.ShortCode,
			Owner:     m.Owner,
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
			ClickedAt: time.Now().UTC(),
		})
	}

	http.Redirect(w, r, m.OriginalURL, http.StatusFound)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	m, err := s.shortener.ResolveAndRecordClick(r.Context(), r.PathValue("shortCode"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMappingResponse(m, s.baseURL))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return
	}

	stats, err := s.shortener.GetClickStats(r.Context(), r.PathValue("shortCode"), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("shortCode")
	if !shortcode.Valid(code) {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid short code")
		return
	}

	png, err := qrcode.Encode(s.baseURL+"/"+code, qrcode.Medium, qrSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(png)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK
	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
	}

	for _, c := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		err := c.pinger.Ping(ctx)
		cancel()

		switch {
		case err == nil:
			resp.Checks[c.name] = "ok"
		case c.required:
			slog.Error("Health check failed", "check", c.name, "error", err)
			resp.Checks[c.name] = "down"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		default:
			slog.Warn("Health check degraded", "check", c.name, "error", err)
			resp.Checks[c.name] = "degraded"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}
	}

	writeJSON(w, status, resp)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, types.ErrUnknownOwner):
		writeError(w, http.StatusUnauthorized, "unknown_owner", "caller has no account")
	case errors.Is(err, types.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "short url not found")
	case errors.Is(err, types.ErrCodeConflict):
		writeError(w, http.StatusConflict, "code_conflict", "short code already taken")
	case errors.Is(err, types.ErrStoreUnavailable), errors.Is(err, types.ErrGenerationExhausted):
		slog.Error("Service unavailable", "path", r.URL.Path, "error", err)
		capture(r, err)
		writeError(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable")
	default:
		slog.Error("Internal error", "path", r.URL.Path, "error", err)
		capture(r, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func capture(r *http.Request, err error) {
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	}
}
