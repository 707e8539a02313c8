package main

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/raysh454/kasumi/internal/blockdetect"
	"github.com/raysh454/kasumi/internal/demosite"
	"github.com/raysh454/kasumi/internal/fetch"
	"github.com/raysh454/kasumi/internal/logging"
	"github.com/raysh454/kasumi/internal/webclient"
)

// Scratch driver: hit the demo site's protected page with the plain client
// and show the detector catching the challenge interstitial.
func main() {
	site := demosite.NewSite(demosite.DefaultConfig())
	server := httptest.NewServer(site.Handler())
	defer server.Close()

	cfg := webclient.DefaultConfig()
	cfg.Headers = fetch.BrowserHeaders("")
	client := webclient.New(cfg, logging.NewNop(), nil)

	resp, err := client.Get(context.Background(), server.URL+"/article")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	doc, err := blockdetect.Parse(string(resp.Body))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	blocked := blockdetect.Blocked(doc, []string{"#challenge"})
	fmt.Printf("status: %d, blocked: %v\n", resp.StatusCode, blocked)
}
