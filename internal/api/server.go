package api

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/ndthub/internal/blob"
	"github.com/dgallion1/ndthub/internal/config"
	"github.com/dgallion1/ndthub/internal/ingest"
	"github.com/dgallion1/ndthub/internal/search"
	"github.com/dgallion1/ndthub/internal/store"
)

// Server is the HTTP API for the document hub.
type Server struct {
	router   chi.Router
	db       *store.Store
	blobs    *blob.Store
	ingestor *ingest.Ingestor
	searcher *search.Client
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(db *store.Store, blobs *blob.Store, ingestor *ingest.Ingestor, searcher *search.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		db:       db,
		blobs:    blobs,
		ingestor: ingestor,
		searcher: searcher,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Post("/api/auth/login", s.handleLogin)
	r.Get("/api/manufacturers", s.handleListManufacturers)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(s.RequireUser)

		r.Post("/api/auth/logout", s.handleLogout)
		r.Get("/api/manufacturers/{manufacturerID}/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}/sections", s.handleListSections)
		r.Get("/api/sections/{sectionID}/figures", s.handleListFigures)
		r.Get("/api/documents/{docID}/pdf", s.handleGetPDF)
		r.Post("/api/tool/search", s.handleSearchTool)

		// Admin-only endpoints.
		r.Group(func(r chi.Router) {
			r.Use(s.RequireAdmin)

			r.Post("/api/manufacturers/{manufacturerID}/documents", s.handleUploadDocument)
			r.Patch("/api/documents/{docID}", s.handleUpdateDocument)
			r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
			r.Get("/api/audit-logs", s.handleListAuditLogs)
		})
	})

	// Static UI.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.WebRoot))))
	r.Get("/app", s.handleAppEntry)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleAppEntry(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.WebRoot, "index.html"))
}
