package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/presentation/graph"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/runner"
	"github.com/aretw0/mootcourt/pkg/session"
)

// DefaultKeepAlive is the interval of SSE comment frames on idle streams.
const DefaultKeepAlive = 15 * time.Second

// Server serves the case library and live sessions of a Manager.
type Server struct {
	Sessions *session.Manager
	Spec     *openapi3.T
	Metrics  http.Handler
	Logger   *slog.Logger

	origins   []string
	keepAlive time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics mounts a Prometheus handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithCORSOrigins restricts cross-origin access (and WebSocket origins) to
// the given origins. Without it any origin is allowed.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithKeepAlive sets the SSE keep-alive interval.
func WithKeepAlive(d time.Duration) Option {
	return func(s *Server) {
		s.keepAlive = d
	}
}

// NewHandler creates the HTTP handler for a session manager.
func NewHandler(mgr *session.Manager, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		Sessions:  mgr,
		Spec:      spec,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		keepAlive: DefaultKeepAlive,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Route("/cases", func(r chi.Router) {
		r.Get("/", s.listCases)
		r.Get("/{caseId}", s.getCase)
		r.Get("/{caseId}/report", s.getCaseReport)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Get("/{sessionId}", s.getSession)
		r.Delete("/{sessionId}", s.closeSession)
		r.Post("/{sessionId}/submit", s.submitResponse)
		r.Get("/{sessionId}/events", s.subscribeEvents)
		r.Get("/{sessionId}/ws", s.sessionSocket)
		r.Get("/{sessionId}/graph", s.getSessionGraph)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return s.enableCORS(r), nil
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.origins) > 0 {
			origin = ""
			for _, o := range s.origins {
				if o == r.Header.Get("Origin") {
					origin = o
					break
				}
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Mootcourt API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// getHealth handles the GET /health request.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getInfo handles the GET /info request.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.Spec.Info != nil {
		apiVersion = s.Spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "mootcourt-http",
		"version":     strings.TrimSpace(mootcourt.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.Catalog().List())
}

func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.Sessions.Catalog().Get(chi.URLParam(r, "caseId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// getCaseReport serves the static report as JSON, or as markdown when asked
// through ?format=markdown or the Accept header.
func (s *Server) getCaseReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "caseId")
	report, ok := s.Sessions.Catalog().Report(id)
	if !ok {
		s.writeError(w, fmt.Errorf("%w: no report for %s", domain.ErrCaseNotFound, id))
		return
	}

	if r.URL.Query().Get("format") == "markdown" || strings.Contains(r.Header.Get("Accept"), "text/markdown") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"report":    report,
		"total":     report.Total(),
		"max_total": report.MaxTotal(),
	})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.List())
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req session.Request
	if err := decodeBody(s.Spec, "CreateSessionRequest", body, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	entry, err := s.Sessions.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.Logger.Info("HTTP session created", "session_id", entry.Session.ID(), "case", req.CaseID)
	w.Header().Set("Location", "/sessions/"+entry.Session.ID())
	s.writeJSON(w, http.StatusCreated, entry.Session.Snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	entry, err := s.Sessions.Get(chi.URLParam(r, "sessionId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry.Session.Snapshot())
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Close(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitResponse struct {
	Accepted bool             `json:"accepted"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
}

// submitResponse handles POST /sessions/{id}/submit. A refusal because the
// session is not waiting is a 409; blank or oversized text is a 400.
func (s *Server) submitResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(s.Spec, "SubmitRequest", body, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	text, err := runner.SanitizeInput(req.Text)
	if err != nil {
		s.Logger.Warn("Submit: input rejected", "err", err, "size", len(req.Text))
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody(errors.New("response must not be empty")))
		return
	}

	accepted, err := s.Sessions.Submit(r.Context(), id, text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, err := s.Sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if !accepted {
		status = http.StatusConflict
	}
	s.writeJSON(w, status, submitResponse{Accepted: accepted, Snapshot: entry.Session.Snapshot()})
}

// subscribeEvents handles GET /sessions/{id}/events (SSE).
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	entry, err := s.Sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Info("SSE: Subscribing to Session Updates", "session_id", id)

	filter := parseWatch(r.URL.Query().Get("watch"))

	var mu sync.Mutex
	writeFrame := func(frame string) {
		mu.Lock()
		defer mu.Unlock()
		io.WriteString(w, frame)
		flusher.Flush()
	}

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	wg.Add(1)
	defer func() {
		cancel()
		wg.Wait()
	}()
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.keepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Comment frames keep proxies from dropping idle streams.
				writeFrame(": keep-alive\n\n")
			}
		}
	}()

	err = watchDiffs(ctx, entry.Session, func(d *domain.SnapshotDiff) error {
		if !filter.keep(d) {
			return nil
		}
		data, err := json.Marshal(d)
		if err != nil {
			return err
		}
		writeFrame("data: " + string(data) + "\n\n")
		return nil
	})
	if err != nil {
		s.Logger.Info("SSE Client Disconnected", "session_id", id)
		return
	}
	writeFrame("event: end\ndata: {}\n\n")
}

func (s *Server) getSessionGraph(w http.ResponseWriter, r *http.Request) {
	entry, err := s.Sessions.Get(chi.URLParam(r, "sessionId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap := entry.Session.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(entry.Session.Script(), graph.OverlayFromSnapshot(snap)))
}

// -- Helpers --

// readBody caps the request at twice the input limit plus envelope room.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limit := int64(2*runner.MaxInputSize() + 1024)
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", runner.ErrInputTooLarge, limit)
		}
		return nil, err
	}
	return body, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorBody(err))
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// statusFor maps domain sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidScript),
		errors.Is(err, domain.ErrEmptyScript),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
