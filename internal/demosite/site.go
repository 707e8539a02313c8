// Package demosite is a local test target for the fetch service: a site
// that blocks plain HTTP clients behind a JavaScript challenge the way
// simple bot protection does.
package demosite

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"sync"
)

// Mode selects how the site treats the protected page.
type Mode string

const (
	// ModeChallenge serves the interstitial until the clearance cookie
	// shows up. A real browser clears it on its own.
	ModeChallenge Mode = "challenge"
	// ModeHard serves the interstitial unconditionally.
	ModeHard Mode = "hard"
	// ModeOpen never challenges.
	ModeOpen Mode = "open"
)

// clearanceCookie is set by the challenge page's inline script.
const clearanceCookie = "ds_clearance"

// Site is the demo site instance.
type Site struct {
	cfg Config

	mu   sync.RWMutex
	mode Mode
}

// NewSite creates a demo site instance.
func NewSite(cfg Config) *Site {
	mode := cfg.InitialMode
	if mode == "" {
		mode = ModeChallenge
	}
	return &Site{cfg: cfg, mode: mode}
}

// Handler returns the site's routes. Exposed so tests can mount the site
// on an httptest server.
func (s *Site) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/article", s.articleHandler)
	mux.HandleFunc("/static/", s.staticHandler)

	mux.HandleFunc("/demo/control", s.controlHandler)
	mux.HandleFunc("/demo/set-mode", s.setModeHandler)
	mux.HandleFunc("/demo/get-mode", s.getModeHandler)
	return mux
}

// Start starts the demo site.
func (s *Site) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo site starting on http://localhost%s\n", addr)
	fmt.Printf("Protected page at http://localhost%s/article\n", addr)
	fmt.Printf("Control panel at http://localhost%s/demo/control\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Mode returns the current blocking mode.
func (s *Site) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Site) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexPage))
}

// articleHandler serves the protected page. Whether a request clears the
// challenge depends on the current mode and the clearance cookie.
func (s *Site) articleHandler(w http.ResponseWriter, r *http.Request) {
	mode := s.Mode()

	cleared := false
	switch mode {
	case ModeOpen:
		cleared = true
	case ModeChallenge:
		if c, err := r.Cookie(clearanceCookie); err == nil && c.Value != "" {
			cleared = true
		}
	case ModeHard:
		// never cleared
	}

	w.Header().Set("Content-Type", "text/html")
	if cleared {
		_, _ = w.Write([]byte(articlePage))
		return
	}
	_, _ = w.Write([]byte(challengePage))
}

// staticHandler serves placeholder assets referenced by the article page.
func (s *Site) staticHandler(w http.ResponseWriter, r *http.Request) {
	switch path.Ext(r.URL.Path) {
	case ".css":
		w.Header().Set("Content-Type", "text/css")
		fmt.Fprintf(w, "/* demo stylesheet: %s */\n", r.URL.Path)
	case ".svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16"><rect width="16" height="16"/></svg>`)
	default:
		http.NotFound(w, r)
	}
}

// controlHandler serves the mode-switching panel.
func (s *Site) controlHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := template.Must(template.New("control").Parse(controlPage))
	data := struct {
		Mode  Mode
		Modes []Mode
	}{
		Mode:  s.Mode(),
		Modes: []Mode{ModeChallenge, ModeHard, ModeOpen},
	}
	w.Header().Set("Content-Type", "text/html")
	_ = tmpl.Execute(w, data)
}

// setModeHandler switches the blocking mode.
func (s *Site) setModeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mode := Mode(r.FormValue("mode"))
	switch mode {
	case ModeChallenge, ModeHard, ModeOpen:
	default:
		http.Error(w, "Unknown mode", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"mode":    mode,
	})
}

// getModeHandler returns the current mode.
func (s *Site) getModeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"mode": s.Mode(),
	})
}
