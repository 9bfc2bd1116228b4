package server

import (
	"net/http"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/storage"
)

// Server exposes the library catalog as a small JSON API.
type Server struct {
	DB *storage.DB
}

func New(db *storage.DB) *Server {
	return &Server{DB: db}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/roms", s.handleRoms)
	mux.HandleFunc("GET /api/matches", s.handleMatches)
	mux.HandleFunc("GET /api/runs", s.handleRuns)

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}
