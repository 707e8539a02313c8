package server

// FetchRequest is the payload of a fetch call, shared by the GET query
// parameters and the POST JSON body.
type FetchRequest struct {
	// URL is the page to fetch. Required, http or https.
	URL string `json:"url" example:"https://example.com/article"`

	// WaitForElement is a CSS selector the browser render waits for
	// before extracting HTML.
	WaitForElement string `json:"wait_for_element,omitempty" example:"#main-content"`

	// WaitTimeout is the wait bound for WaitForElement, in seconds.
	WaitTimeout int `json:"wait_timeout,omitempty" example:"20"`

	// IsBlockElement lists CSS selectors whose presence marks the
	// response as a block page.
	IsBlockElement []string `json:"is_block_element,omitempty" example:"#challenge-form,.cf-challenge"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"network error"`
}
