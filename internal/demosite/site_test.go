package demosite_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/raysh454/kasumi/internal/demosite"
)

func newTestSite(t *testing.T, mode demosite.Mode) *httptest.Server {
	t.Helper()

	cfg := demosite.DefaultConfig()
	cfg.InitialMode = mode
	ts := httptest.NewServer(demosite.NewSite(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, rawURL string, withClearance bool) (int, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if withClearance {
		req.AddCookie(&http.Cookie{Name: "ds_clearance", Value: "1"})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestSiteChallengesPlainClient(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	status, body := get(t, ts.URL+"/article", false)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(body, `id="challenge"`) {
		t.Error("plain client should get the challenge page")
	}
	if strings.Contains(body, `id="main-content"`) {
		t.Error("plain client should not see the article")
	}
}

func TestSiteServesArticleWithClearance(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	_, body := get(t, ts.URL+"/article", true)
	if !strings.Contains(body, `id="main-content"`) {
		t.Error("cleared client should get the article")
	}
}

func TestSiteHardModeIgnoresClearance(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeHard)

	_, body := get(t, ts.URL+"/article", true)
	if !strings.Contains(body, `id="challenge"`) {
		t.Error("hard mode should challenge even cleared clients")
	}
}

func TestSiteOpenModeSkipsChallenge(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeOpen)

	_, body := get(t, ts.URL+"/article", false)
	if !strings.Contains(body, `id="main-content"`) {
		t.Error("open mode should serve the article to everyone")
	}
}

func TestSiteSetMode(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	resp, err := http.PostForm(ts.URL+"/demo/set-mode", url.Values{"mode": {"open"}})
	if err != nil {
		t.Fatalf("set-mode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set-mode status = %d, want 200", resp.StatusCode)
	}

	_, body := get(t, ts.URL+"/demo/get-mode", false)
	var got struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode get-mode: %v", err)
	}
	if got.Mode != "open" {
		t.Errorf("mode = %q, want open", got.Mode)
	}
}

func TestSiteSetModeRejectsUnknown(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	resp, err := http.PostForm(ts.URL+"/demo/set-mode", url.Values{"mode": {"stealth"}})
	if err != nil {
		t.Fatalf("set-mode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSiteSetModeRequiresPost(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	status, _ := get(t, ts.URL+"/demo/set-mode", false)
	if status != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", status)
	}
}

func TestSiteIndexAndUnknownPath(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	status, body := get(t, ts.URL+"/", false)
	if status != http.StatusOK {
		t.Fatalf("index status = %d, want 200", status)
	}
	if !strings.Contains(body, "/article") {
		t.Error("index should link the protected page")
	}

	status, _ = get(t, ts.URL+"/nope", false)
	if status != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", status)
	}
}

func TestSiteServesStaticAssets(t *testing.T) {
	t.Parallel()

	ts := newTestSite(t, demosite.ModeChallenge)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/static/style.css", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get css: %v", err)
	}
	resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/css" {
		t.Errorf("css Content-Type = %q", ct)
	}

	status, _ := get(t, ts.URL+"/static/app.wasm", false)
	if status != http.StatusNotFound {
		t.Errorf("unknown asset status = %d, want 404", status)
	}
}
