package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/kasumi/internal/browser"
	"github.com/raysh454/kasumi/internal/fetch"
	"github.com/raysh454/kasumi/internal/history"
	"github.com/raysh454/kasumi/internal/logging"
	"github.com/raysh454/kasumi/internal/urlutil"
)

// Server is the HTTP API surface for Kasumi.
type Server struct {
	cfg     Config
	fetcher Fetcher
	hist    HistoryReader
	router  chi.Router
	logger  logging.Logger
}

// NewServer wires the router around the given fetcher. hist may be nil
// when the audit log is disabled.
func NewServer(cfg Config, fetcher Fetcher, hist HistoryReader, logger logging.Logger) (*Server, error) {
	if fetcher == nil {
		return nil, errors.New("server: fetcher is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		hist:    hist,
		router:  chi.NewRouter(),
		logger:  logger.With(logging.Field{Key: "component", Value: "server"}),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Compress(5))

	r.Get("/", s.handleFetchQuery)
	r.Post("/", s.handleFetchJSON)
	r.Get("/history", s.handleHistory)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // a render behind a slow challenge can hold a response open for minutes
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusForError maps fetch errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, browser.ErrNavigationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, browser.ErrPoolTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, fetch.ErrNetwork),
		errors.Is(err, browser.ErrNavigation),
		errors.Is(err, fetch.ErrBypassFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- HTTP handlers ---

// handleFetchQuery serves GET / with the fetch parameters in the query string.
//
// @Summary Fetch a page's HTML
// @Description Fetches the URL directly with browser-like headers; when the body matches one of the is_block_element selectors the page is rendered once in headless Chrome instead.
// @Produce html
// @Param url query string true "Page URL (http or https)"
// @Param wait_for_element query string false "CSS selector to wait for during a browser render"
// @Param wait_timeout query int false "Seconds to wait for the selector (default 20)"
// @Param is_block_element query []string false "CSS selectors that mark a block page" collectionFormat(multi)
// @Success 200 {string} string "HTML document"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router / [get]
func (s *Server) handleFetchQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := FetchRequest{
		URL:            q.Get("url"),
		WaitForElement: q.Get("wait_for_element"),
		IsBlockElement: q["is_block_element"],
	}
	if ts := q.Get("wait_timeout"); ts != "" {
		v, err := strconv.Atoi(ts)
		if err != nil {
			writeError(w, http.StatusBadRequest, "wait_timeout must be an integer")
			return
		}
		req.WaitTimeout = v
	}

	s.serveFetch(w, req)
}

// handleFetchJSON serves POST / with the fetch parameters as JSON.
//
// @Summary Fetch a page's HTML
// @Description Same as the GET form, with the parameters in a JSON body.
// @Accept json
// @Produce html
// @Param request body FetchRequest true "Fetch parameters"
// @Success 200 {string} string "HTML document"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router / [post]
func (s *Server) handleFetchJSON(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("decoding fetch body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s.serveFetch(w, req)
}

func (s *Server) serveFetch(w http.ResponseWriter, req FetchRequest) {
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.WaitTimeout < 0 {
		writeError(w, http.StatusBadRequest, "wait_timeout must not be negative")
		return
	}
	pageURL, err := urlutil.Normalize(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The attempt runs on a background-derived context: a client that
	// gives up mid-render must not abort the fetch or its audit record.
	html, err := s.fetcher.GetHTML(context.Background(), &fetch.Request{
		URL:              pageURL,
		WaitForElement:   req.WaitForElement,
		WaitTimeout:      time.Duration(req.WaitTimeout) * time.Second,
		BlockedSelectors: req.IsBlockElement,
	})
	if err != nil {
		status := statusForError(err)
		s.logger.Warn("fetch failed",
			logging.Field{Key: "url", Value: pageURL},
			logging.Field{Key: "status", Value: status},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// handleHistory serves GET /history.
//
// @Summary Recent fetch history
// @Description Lists recent fetch attempts, newest first. Returns an empty list when the audit log is disabled.
// @Produce json
// @Param limit query int false "Maximum records to return (default 50)"
// @Success 200 {array} history.Record
// @Failure 500 {object} ErrorResponse
// @Router /history [get]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	recs, err := s.hist.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing fetch history", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}
