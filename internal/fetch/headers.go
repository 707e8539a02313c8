package fetch

import "net/http"

// defaultUserAgent matches current desktop Chrome. The render path applies
// the same string, since headless Chrome otherwise identifies itself as
// HeadlessChrome and gives the game away.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// BrowserHeaders builds the header set applied to every direct request.
// An empty userAgent selects the built-in Chrome string. The returned
// header is a fresh copy on each call and is never mutated by the fetcher.
func BrowserHeaders(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Priority", "u=0, i")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("User-Agent", userAgent)
	return h
}
