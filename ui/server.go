package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"cetaksoal/internal"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"
	"cetaksoal/internal/state"
	"cetaksoal/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// Config holds UI server configuration
type Config struct {
	MaxUploadBytes int64
	AllowedTypes   []string
	RecentImports  int
}

// Server is the interactive editor: sidebar controls, live preview and print
type Server struct {
	router    *gin.Engine
	templates *template.Template
	config    Config
	logger    *internal.Logger

	store     *state.Store
	renderer  *render.Renderer
	refresher *render.Refresher
	importer  *importer.Service
	events    *EventHub

	mathScript template.HTML
}

// NewServer wires the UI to the document pipeline. The server stops
// streaming events when hub is closed.
func NewServer(config Config, store *state.Store, renderer *render.Renderer, refresher *render.Refresher,
	importer *importer.Service, hub *EventHub, logger *internal.Logger) (*Server, error) {
	if hub == nil {
		return nil, fmt.Errorf("event hub cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.RecentImports <= 0 {
		config.RecentImports = 5
	}

	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}
	mathScript, err := renderer.MathScript()
	if err != nil {
		return nil, fmt.Errorf("failed to render math script: %w", err)
	}

	s := &Server{
		router:     gin.New(),
		templates:  templates,
		config:     config,
		logger:     logger.Named("UI"),
		store:      store,
		renderer:   renderer,
		refresher:  refresher,
		importer:   importer,
		events:     hub,
		mathScript: mathScript,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler for use with http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("failed to create static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/fragment", s.handleFragment)
	s.router.GET("/print", s.handlePrint)
	s.router.GET("/panduan", s.handleGuide)
	s.router.GET("/document.css", s.handleDocumentCSS)

	s.router.POST("/import", middleware.LimitBody(s.config.MaxUploadBytes), s.handleImport)
	s.router.POST("/settings", s.handleSettings)
	s.router.POST("/header", s.handleHeader)

	s.router.GET("/api/state", s.handleState)
	s.router.GET("/events", s.events.HandleSSE)
}
