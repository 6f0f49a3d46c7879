// Package server hosts the dialog renderers over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-webdialog/internal/apidoc"
	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/orchestrator"
	"github.com/goliatone/go-webdialog/pkg/render"
)

const (
	formatPage = "page"
	formatJSON = "json"

	rendererPage     = "page"
	rendererFragment = "fragment"
)

// LocaleMatcher negotiates a supported locale from request preferences.
// *i18n.Catalog satisfies it.
type LocaleMatcher interface {
	Match(preferences ...string) string
	Locales() []string
}

// Option customises the server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocaleMatcher enables ?lang= and Accept-Language negotiation.
func WithLocaleMatcher(matcher LocaleMatcher) Option {
	return func(s *Server) {
		s.locales = matcher
	}
}

// WithTranslator localizes the titles in the dialog listing.
func WithTranslator(t render.Translator) Option {
	return func(s *Server) {
		s.translator = t
	}
}

// WithBaseURL prefixes the client resource paths of every render.
func WithBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithVersion is reported in the API description.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(version)
	}
}

// Server routes dialog requests to the orchestrator.
type Server struct {
	orch       *orchestrator.Orchestrator
	logger     *slog.Logger
	locales    LocaleMatcher
	translator render.Translator
	baseURL    string
	version    string
	apiDoc     []byte
	handler    http.Handler
}

// New wires the routes and prebuilds the API description.
func New(ctx context.Context, orch *orchestrator.Orchestrator, options ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	s := &Server{
		orch:   orch,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	var locales []string
	if s.locales != nil {
		locales = s.locales.Locales()
	}
	doc, err := apidoc.Build(ctx, apidoc.Options{
		Title:   "webdialog",
		Version: s.version,
		Dialogs: orch.Dialogs().List(),
		Formats: s.formats(),
		Locales: locales,
		Params:  s.params(),
	})
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.apiDoc, err = json.Marshal(doc); err != nil {
		return nil, fmt.Errorf("server: marshal api description: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /dialogs/{name}", s.handleDialog)
	mux.HandleFunc("GET /dialogs", s.handleList)
	mux.HandleFunc("GET /openapi.json", s.handleAPIDoc)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.handler = withRequestID(withLogging(s.logger, mux))
	return s, nil
}

// Handler returns the root handler including request id and logging
// middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for at most grace.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener, grace)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener, grace time.Duration) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.logger.Info("listening", slog.String("addr", listener.Addr().String()))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	s.logger.Info("shutting down", slog.Duration("grace", grace))
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleDialog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rendererName, err := s.rendererFor(query.Get("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.orch.Render(r.Context(), orchestrator.Request{
		Dialog:        r.PathValue("name"),
		Query:         query,
		Locale:        s.localeFor(r),
		Renderer:      rendererName,
		ThemeName:     strings.TrimSpace(query.Get("theme")),
		ThemeVariant:  strings.TrimSpace(query.Get("variant")),
		RenderOptions: render.RenderOptions{BaseURL: s.baseURL},
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(result.Output); err != nil {
		s.logger.Warn("write response", slog.String("request_id", RequestIDFrom(r.Context())), slog.Any("error", err))
	}
}

type dialogEntry struct {
	Name   string           `json:"name"`
	Title  string           `json:"title"`
	Module dialog.ModuleRef `json:"module"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	locale := s.localeFor(r)
	registry := s.orch.Dialogs()

	entries := make([]dialogEntry, 0)
	for _, name := range registry.List() {
		d, err := registry.Get(name)
		if err != nil {
			continue
		}
		entries = append(entries, dialogEntry{
			Name:   d.Name(),
			Title:  d.Title(locale, s.translator),
			Module: d.Module(),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(entries)
}

func (s *Server) handleAPIDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(s.apiDoc)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.LogAttrs(r.Context(), level, "dialog request failed",
		slog.String("request_id", RequestIDFrom(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Int("status", code),
		slog.Any("error", err),
	)
	writeError(w, r, code, err)
}

// rendererFor maps ?format= onto a registered renderer. "json" selects the
// fragment renderer; other registered renderer names pass through.
func (s *Server) rendererFor(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", formatPage:
		return rendererPage, nil
	case formatJSON:
		return rendererFragment, nil
	}
	if format != rendererFragment && s.orch.Renderers().Has(format) {
		return format, nil
	}
	return "", StatusError{
		Code: http.StatusBadRequest,
		Err:  fmt.Errorf("unknown format %q", format),
	}
}

func (s *Server) formats() []string {
	formats := []string{formatPage, formatJSON}
	for _, name := range s.orch.Renderers().List() {
		if name != rendererPage && name != rendererFragment {
			formats = append(formats, name)
		}
	}
	return formats
}

func (s *Server) params() []dialog.Param {
	registry := s.orch.Dialogs()
	var params []dialog.Param
	for _, name := range registry.List() {
		d, err := registry.Get(name)
		if err != nil {
			continue
		}
		params = append(params, d.Params()...)
	}
	return params
}

// localeFor prefers ?lang= over Accept-Language. Without a matcher the
// orchestrator default applies.
func (s *Server) localeFor(r *http.Request) string {
	if s.locales == nil {
		return strings.TrimSpace(r.URL.Query().Get("lang"))
	}
	return s.locales.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}
