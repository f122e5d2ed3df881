package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/KamdynS/go-miro-mcp/miro"
	"github.com/KamdynS/go-miro-mcp/tools"
	"github.com/KamdynS/go-miro-mcp/tools/board"
)

// maxBodyBytes caps an execute request body.
const maxBodyBytes = 1 << 20

// Server exposes the tool registry and board resource over plain HTTP
type Server struct {
	reg     tools.Registry
	boards  *board.BoardResource
	config  Config
	log     *logrus.Logger
	limiter *RateLimiter
	server  *http.Server
}

// Config holds HTTP server configuration
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
	// Metrics, when set, is served on /metrics.
	Metrics http.Handler
	Logger  *logrus.Logger
}

// NewServer creates a new HTTP server. boards may be nil.
func NewServer(reg tools.Registry, boards *board.BoardResource, config Config) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		// One remote round trip plus encoding.
		config.WriteTimeout = 45 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	s := &Server{
		reg:    reg,
		boards: boards,
		config: config,
		log:    config.Logger,
	}
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = NewRateLimiter(rate.Limit(config.RateLimit), burst, 5*time.Minute)
	}

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

// Routes builds the router. Exposed for tests and embedding.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	// The limiter keys on the socket peer; forwarding headers are not trusted.
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware(s.log))
	r.Use(chimw.Recoverer)

	r.Get("/health", s.healthHandler)
	if s.config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.config.Metrics)
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware(s.log))
		}
		r.Get("/tools", s.listToolsHandler)
		r.Post("/tools/{name}/execute", s.executeHandler)
		r.Get("/resources/board/{boardId}", s.boardResourceHandler)
	})
	return r
}

// ExecuteRequest carries the tool arguments as a JSON document in a string
type ExecuteRequest struct {
	Input string `json:"input"`
}

// ExecuteResponse is the result of a successful tool call
type ExecuteResponse struct {
	Result string `json:"result"`
}

// ErrorResponse describes a failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type toolsResponse struct {
	Tools []tools.Descriptor `json:"tools"`
}

// healthHandler provides a health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) listToolsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toolsResponse{Tools: s.reg.Describe()})
}

func (s *Server) executeHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Kind: "validation"})
			return
		}
		s.writeError(w, r, &miro.ValidationError{Reason: "body must be {\"input\": \"<json arguments>\"}"})
		return
	}
	args := tools.Args{}
	if req.Input != "" {
		if err := json.Unmarshal([]byte(req.Input), &args); err != nil {
			s.writeError(w, r, &miro.ValidationError{Field: "input", Reason: "must be a JSON object"})
			return
		}
	}

	result, err := s.reg.Execute(r.Context(), name, args)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExecuteResponse{Result: result})
}

func (s *Server) boardResourceHandler(w http.ResponseWriter, r *http.Request) {
	if s.boards == nil {
		http.NotFound(w, r)
		return
	}
	text, err := s.boards.ReadBoard(r.Context(), chi.URLParam(r, "boardId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", board.ResourceMIMEType)
	_, _ = w.Write([]byte(text))
}

// StatusFor maps an operation error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case miro.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrUnknownOperation):
		return http.StatusNotFound
	case errors.Is(err, miro.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	if _, ok := miro.AsTransport(err); ok {
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	writeJSON(w, code, ErrorResponse{Error: err.Error(), Kind: tools.ErrorKind(err)})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe starts the HTTP server and blocks until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.config.Addr).Info("HTTP server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.limiter != nil {
			s.limiter.Stop()
		}
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.server.Shutdown(ctx)
}
