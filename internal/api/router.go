// Package api exposes the conversion pipeline as a JSON/HTML HTTP API.
package api

import (
	"net/http"

	"cetaksoal/domain/exam"
	"cetaksoal/internal"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds what the API needs beyond its services
type Config struct {
	// MaxUploadBytes caps multipart bodies on /api/import
	MaxUploadBytes int64
	// Header and Settings fill in what a render request leaves out
	Header   exam.HeaderInfo
	Settings exam.Settings
	// LedgerLimit is the default page size of /api/imports
	LedgerLimit int
}

// API serves the stateless conversion endpoints
type API struct {
	router   *chi.Mux
	importer *importer.Service
	renderer *render.Renderer
	config   Config
	logger   *internal.Logger
}

// New builds the router
func New(config Config, importer *importer.Service, renderer *render.Renderer, logger *internal.Logger) *API {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.LedgerLimit <= 0 {
		config.LedgerLimit = 20
	}
	a := &API{
		router:   chi.NewRouter(),
		importer: importer,
		renderer: renderer,
		config:   config,
		logger:   logger.Named("API"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// ServeHTTP makes the API an http.Handler
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *API) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *API) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/import", a.handleImport)
		r.Get("/imports", a.handleImports)
		r.Post("/map", a.handleMap)
		r.Post("/format", a.handleFormat)
		r.Post("/layout", a.handleLayout)
		r.Post("/render", a.handleRender)
	})
}
