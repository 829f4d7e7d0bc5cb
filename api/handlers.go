package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/engine"
)

// HandleSearch serves GET /api/search. The q parameter is required; type and
// difficulty are repeatable; page and pageSize are optional.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}

	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("Search failed", "query", query.Text, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

// HandleClearCache serves POST /api/cache/clear.
func (s *Server) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearCache()
	s.writeJSON(w, http.StatusOK, ClearCacheResponse{Status: "cleared"})
}

// HandleHealth serves GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}

	s.writeJSON(w, http.StatusOK, health)
}

func parseSearchQuery(values url.Values) (engine.Query, error) {
	if !values.Has("q") {
		return engine.Query{}, fmt.Errorf("query parameter 'q' is required")
	}

	query := engine.Query{
		Text:       values.Get("q"),
		Difficulty: values["difficulty"],
	}

	for _, name := range values["type"] {
		category, ok := edsearch.ParseCategory(name)
		if !ok {
			return engine.Query{}, fmt.Errorf("unknown content type: %q", name)
		}
		query.Categories = append(query.Categories, category)
	}

	var err error
	if query.Page, err = parsePositiveInt(values, "page"); err != nil {
		return engine.Query{}, err
	}
	if query.PageSize, err = parsePositiveInt(values, "pageSize"); err != nil {
		return engine.Query{}, err
	}

	return query, nil
}

func parsePositiveInt(values url.Values, name string) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("parameter %q must be a positive integer: %q", name, raw)
	}
	return n, nil
}
