// Package server exposes card generation over HTTP.
//
//	POST /api/ogp            {"title": "..."} → JSON with base64 image and data URI
//	GET  /api/ogp/image      ?title=...      → raw image as an attachment
//	GET  /healthz                            → ok
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	ogerr "github.com/ByLCY/ogppu/errors"
	"github.com/ByLCY/ogppu/generator"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Server routes HTTP requests to a Generator.
type Server struct {
	gen    *generator.Generator
	logger *log.Logger
	router chi.Router
}

// New builds the router. A nil logger selects log.Default.
func New(gen *generator.Generator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{gen: gen, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/ogp", s.handleGenerate)
	r.Get("/api/ogp/image", s.handleImage)
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type generateRequest struct {
	Title string `json:"title"`
}

type generateResponse struct {
	Image    string `json:"image"`
	DataURI  string `json:"dataUri"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, ogerr.Wrap(ogerr.ErrCodeInvalidInput, err, "请求体不是有效的 JSON"))
		return
	}

	res, err := s.gen.Generate(r.Context(), req.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Image:    base64.StdEncoding.EncodeToString(res.Image.Data),
		DataURI:  res.Image.DataURI(),
		Filename: res.Filename,
		Format:   string(res.Image.Format),
	})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	res, err := s.gen.Generate(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	h := w.Header()
	h.Set("Content-Type", res.Image.Format.MIME())
	h.Set("Content-Length", strconv.Itoa(len(res.Image.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Image.Data)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := ogerr.GetCode(err)
	if code == "" {
		code = ogerr.ErrCodeInternal
	}
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()), "code", code)
	if status >= http.StatusInternalServerError {
		logger.Error("generate failed", "err", err)
	} else {
		logger.Warn("bad request", "err", err)
	}
	writeJSON(w, status, errorResponse{Message: ogerr.UserMessage(err), Code: string(code)})
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case ogerr.Is(err, ogerr.ErrCodeInvalidInput):
		return http.StatusBadRequest
	case ogerr.IsAssetLoad(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request at info level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
