package server_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/kasumi/internal/browser"
	"github.com/raysh454/kasumi/internal/fetch"
	"github.com/raysh454/kasumi/internal/history"
	"github.com/raysh454/kasumi/internal/logging"
	"github.com/raysh454/kasumi/internal/server"
)

type fakeFetcher struct {
	html  string
	err   error
	calls int
	last  *fetch.Request
}

func (f *fakeFetcher) GetHTML(ctx context.Context, req *fetch.Request) (string, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

type fakeHistory struct {
	recs      []history.Record
	err       error
	lastLimit int
}

func (h *fakeHistory) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	h.lastLimit = limit
	if h.err != nil {
		return nil, h.err
	}
	return h.recs, nil
}

func newTestServer(t *testing.T, f server.Fetcher, h server.HistoryReader) *server.Server {
	t.Helper()

	s, err := server.NewServer(server.DefaultConfig(), f, h, logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

// ─── Fetch over GET ────────────────────────────────────────────────────

func TestServer_FetchGet_ReturnsHTML(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{html: "<html><body>hello</body></html>"}
	s := newTestServer(t, f, nil)

	rec := doJSON(t, s, "GET", "/?url=https://example.com/article", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if rec.Body.String() != f.html {
		t.Errorf("expected the fetched HTML back, got %q", rec.Body.String())
	}
	if f.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", f.calls)
	}
}

func TestServer_FetchGet_PassesParams(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{html: "<html></html>"}
	s := newTestServer(t, f, nil)

	path := "/?url=https://example.com&wait_for_element=%23content&wait_timeout=5" +
		"&is_block_element=.cf-challenge&is_block_element=%23captcha"
	rec := doJSON(t, s, "GET", path, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req := f.last
	if req.URL != "https://example.com" {
		t.Errorf("unexpected url: %s", req.URL)
	}
	if req.WaitForElement != "#content" {
		t.Errorf("unexpected wait_for_element: %s", req.WaitForElement)
	}
	if req.WaitTimeout != 5*time.Second {
		t.Errorf("unexpected wait_timeout: %s", req.WaitTimeout)
	}
	if len(req.BlockedSelectors) != 2 || req.BlockedSelectors[0] != ".cf-challenge" || req.BlockedSelectors[1] != "#captcha" {
		t.Errorf("unexpected selectors: %v", req.BlockedSelectors)
	}
}

func TestServer_FetchGet_NormalizesURL(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{html: "<html></html>"}
	s := newTestServer(t, f, nil)

	rec := doJSON(t, s, "GET", "/?url=HTTPS://Example.COM:443/Path", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.last.URL != "https://example.com/Path" {
		t.Errorf("expected a normalized url, got %s", f.last.URL)
	}
}

func TestServer_FetchGet_MissingURL(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{}
	s := newTestServer(t, f, nil)

	rec := doJSON(t, s, "GET", "/", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var e map[string]string
	decodeJSON(t, rec, &e)
	if e["error"] == "" {
		t.Errorf("expected an error payload")
	}
	if f.calls != 0 {
		t.Errorf("fetcher must not run for an invalid request")
	}
}

func TestServer_FetchGet_RejectsBadURL(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeFetcher{}, nil)

	for _, url := range []string{"ftp://example.com", "not-a-url", "http://"} {
		rec := doJSON(t, s, "GET", "/?url="+url, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("url %q: expected 400, got %d", url, rec.Code)
		}
	}
}

func TestServer_FetchGet_RejectsBadWaitTimeout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeFetcher{}, nil)

	rec := doJSON(t, s, "GET", "/?url=https://example.com&wait_timeout=soon", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ─── Fetch over POST ───────────────────────────────────────────────────

func TestServer_FetchPost_ReturnsHTML(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{html: "<html><body>rendered</body></html>"}
	s := newTestServer(t, f, nil)

	body := `{"url":"https://example.com","wait_for_element":"#app","wait_timeout":12,"is_block_element":[".cf-challenge"]}`
	rec := doJSON(t, s, "POST", "/", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != f.html {
		t.Errorf("expected the fetched HTML back")
	}

	req := f.last
	if req.WaitForElement != "#app" {
		t.Errorf("unexpected wait_for_element: %s", req.WaitForElement)
	}
	if req.WaitTimeout != 12*time.Second {
		t.Errorf("unexpected wait_timeout: %s", req.WaitTimeout)
	}
	if len(req.BlockedSelectors) != 1 || req.BlockedSelectors[0] != ".cf-challenge" {
		t.Errorf("unexpected selectors: %v", req.BlockedSelectors)
	}
}

func TestServer_FetchPost_InvalidJSON(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeFetcher{}, nil)

	rec := doJSON(t, s, "POST", "/", `{invalid}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_FetchPost_NegativeWaitTimeout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeFetcher{}, nil)

	rec := doJSON(t, s, "POST", "/", `{"url":"https://example.com","wait_timeout":-3}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ─── Error mapping ─────────────────────────────────────────────────────

func TestServer_FetchErrorStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"network error", fmt.Errorf("%w: get https://example.com: connection refused", fetch.ErrNetwork), http.StatusBadGateway},
		{"navigation error", fmt.Errorf("%w: navigate: net::ERR_FAILED", browser.ErrNavigation), http.StatusBadGateway},
		{"bypass failed", fmt.Errorf("%w: https://example.com", fetch.ErrBypassFailed), http.StatusBadGateway},
		{"navigation timeout", fmt.Errorf("%w: %q after 20s", browser.ErrNavigationTimeout, "#content"), http.StatusGatewayTimeout},
		{"pool timeout", fmt.Errorf("%w after 30s", browser.ErrPoolTimeout), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, &fakeFetcher{err: tc.err}, nil)

			rec := doJSON(t, s, "GET", "/?url=https://example.com", "")
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}

			var e map[string]string
			decodeJSON(t, rec, &e)
			if e["error"] == "" {
				t.Errorf("expected an error payload")
			}
		})
	}
}

// ─── History ───────────────────────────────────────────────────────────

func TestServer_History(t *testing.T) {
	t.Parallel()
	h := &fakeHistory{recs: []history.Record{
		{ID: "b", URL: "https://example.com/2", Outcome: "ok", UsedBrowser: true},
		{ID: "a", URL: "https://example.com/1", Outcome: "network_error"},
	}}
	s := newTestServer(t, &fakeFetcher{}, h)

	rec := doJSON(t, s, "GET", "/history?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if h.lastLimit != 2 {
		t.Errorf("expected limit 2 to reach the store, got %d", h.lastLimit)
	}

	var recs []map[string]any
	decodeJSON(t, rec, &recs)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0]["id"] != "b" {
		t.Errorf("unexpected first record: %v", recs[0])
	}
}

func TestServer_History_Disabled(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeFetcher{}, nil)

	rec := doJSON(t, s, "GET", "/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var recs []map[string]any
	decodeJSON(t, rec, &recs)
	if len(recs) != 0 {
		t.Errorf("expected an empty list, got %v", recs)
	}
}

func TestServer_History_StoreError(t *testing.T) {
	t.Parallel()
	h := &fakeHistory{err: errors.New("db locked")}
	s := newTestServer(t, &fakeFetcher{}, h)

	rec := doJSON(t, s, "GET", "/history", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ─── Compression ───────────────────────────────────────────────────────

func TestServer_CompressesHTMLForGzipClients(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{html: "<html><body>" + strings.Repeat("<p>rendered page</p>", 200) + "</body></html>"}
	s := newTestServer(t, f, nil)

	req := httptest.NewRequest("GET", "/?url=https://example.com/article", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("expected gzip content encoding, got %q", enc)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type: %q", ct)
	}

	compressed := rec.Body.Len()
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer zr.Close()
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read compressed body: %v", err)
	}
	if string(body) != f.html {
		t.Errorf("decompressed body does not match the fetched HTML")
	}
	if compressed >= len(f.html) {
		t.Errorf("compressed body (%d bytes) not smaller than the HTML (%d bytes)", compressed, len(f.html))
	}
}

// ─── Construction ──────────────────────────────────────────────────────

func TestServer_RequiresFetcher(t *testing.T) {
	t.Parallel()

	if _, err := server.NewServer(server.DefaultConfig(), nil, nil, logging.NewNop()); err == nil {
		t.Errorf("expected error for nil fetcher")
	}
}
