package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/marque-dev/marque/internal/codehost"
	"github.com/marque-dev/marque/internal/gitx"
	"github.com/marque-dev/marque/internal/logger"
	"github.com/marque-dev/marque/internal/panel"
	"github.com/marque-dev/marque/internal/store"
	"github.com/marque-dev/marque/internal/summary"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Deps collects the collaborators the panel server consumes. Git, host,
// and repo may be nil; the UI omits those sections.
type Deps struct {
	Store    *store.Store
	Panels   *panel.Registry
	Git      *gitx.Adapter
	Host     *codehost.Client
	Repo     *codehost.RepoInfo
	Summarer *summary.Chain
	Log      logger.Logger
}

// NewServer creates and configures the HTTP server for the collaboration
// panel UI.
func NewServer(deps Deps, version, bind string, port int) *http.Server {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("template sub-FS: %v", err))
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static sub-FS: %v", err))
	}

	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	h := &Handlers{
		store:    deps.Store,
		panels:   deps.Panels,
		git:      deps.Git,
		host:     deps.Host,
		repo:     deps.Repo,
		summarer: deps.Summarer,
		renderer: NewRenderer(templateSub, version, log),
		log:      log,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/sections", http.StatusFound)
	})
	mux.HandleFunc("GET /sections", h.HandleSections)
	mux.HandleFunc("GET /records", h.HandleRecord)
	mux.HandleFunc("POST /records/message", h.HandleMessage)
	mux.HandleFunc("GET /records/summary", h.HandleSummary)
	mux.HandleFunc("POST /panels/dispose", h.HandleDispose)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: securityHeaders(requestLog(log, mux)),
	}
}

// requestLog logs each request with its handling time.
func requestLog(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on
// SIGINT/SIGTERM.
func Run(srv *http.Server, log logger.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("collaboration panel running", logger.String("addr", srv.Addr))
	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
