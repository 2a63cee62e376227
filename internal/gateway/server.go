// Package gateway provides the promptrelay HTTP gateway.
package gateway

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"goa.design/clue/log"

	"github.com/jxucoder/promptrelay/internal/config"
	"github.com/jxucoder/promptrelay/pkg/completion"
)

// maxBodyBytes caps request bodies at 1 MB.
const maxBodyBytes = 1 << 20

//go:embed web/index.html
var indexHTML []byte

// Completer relays one validated prompt. *completion.Service implements it.
type Completer interface {
	Complete(ctx context.Context, req completion.PromptRequest) (completion.Result, error)
}

// Server is the promptrelay HTTP gateway.
type Server struct {
	config          *config.Config
	service         Completer
	logCtx          context.Context
	router          chi.Router
	shutdownTimeout time.Duration
}

// New creates a Server. logCtx carries the clue logger used for request logs.
func New(logCtx context.Context, cfg *config.Config, service Completer) *Server {
	s := &Server{
		config:          cfg,
		service:         service,
		logCtx:          logCtx,
		shutdownTimeout: 10 * time.Second,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the gateway's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ServerAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.ServerAddr, err)
	}
	return s.serve(ctx, ln)
}

// serve serves HTTP on ln until ctx is canceled. It returns once shutdown has
// finished or timed out.
func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(s.logCtx, err,
				log.KV{K: "msg", V: "gateway shutdown did not complete"},
				log.KV{K: "timeout", V: s.shutdownTimeout.String()},
			)
		}
	}()

	log.Printf(s.logCtx, "promptrelay gateway listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}

// completionPaths are the routes serving completions. /api/openai is kept as
// an alias for older pages.
var completionPaths = []string{"/completion", "/openai"}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// Set before mounting so the /api subrouter inherits it.
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		for _, p := range completionPaths {
			// Every verb reaches the handler so the 405 carries Allow: POST.
			r.HandleFunc(p, s.handleCompletion)
		}
	})

	r.Get("/", handleIndex)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

// --- Handlers ---

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	req, err := completion.DecodePromptRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Debug(r.Context(), log.KV{K: "msg", V: "rejected prompt request"}, log.KV{K: "err", V: err.Error()})
		writeFailure(w, err)
		return
	}

	res, err := s.service.Complete(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleMethodNotAllowed covers verbs chi does not route at all (e.g. PURGE).
func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isCompletionPath(r.URL.Path) {
		writeMethodNotAllowed(w)
		return
	}
	writeError(w, http.StatusMethodNotAllowed, completion.MsgMethodNotAllowed)
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// requestLogger tags each request with an X-Request-ID, reusing the caller's
// value when present. The ID is attached to the log context before log.HTTP
// runs so the request and response lines carry it too.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		logCtx := log.With(s.logCtx, log.KV{K: "request-id", V: id})
		log.HTTP(logCtx)(next).ServeHTTP(w, r)
	})
}

// --- Helpers ---

// StatusCode maps a relay error to its HTTP status.
func StatusCode(err error) int {
	switch completion.KindOf(err) {
	case completion.KindValidation:
		return http.StatusBadRequest
	case completion.KindMethod:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func isCompletionPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range completionPaths {
		if path == "/api"+p {
			return true
		}
	}
	return false
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	writeFailure(w, completion.ErrMethodNotAllowed)
}

func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, StatusCode(err), completion.EnvelopeFor(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, completion.ErrorEnvelope{Message: msg})
}
