package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("POST /api/cache/clear", s.HandleClearCache)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
