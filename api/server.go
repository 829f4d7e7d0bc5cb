// Package api exposes the search engine over HTTP with JSON responses.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/learnloop/edsearch/engine"
)

// Server handles HTTP requests against a search engine.
type Server struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewServer creates a Server. A nil logger falls back to slog.Default.
func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		engine: eng,
		logger: logger,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Error encoding JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errTitle, message string) {
	response := ErrorResponse{
		Error:   errTitle,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

// CorsMiddleware allows browser clients on other origins to call the API.
func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
