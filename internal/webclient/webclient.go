package webclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/kasumi/internal/logging"
)

// Client is a plain net/http client that sends browser-like headers with
// every request. It is the cheap first tier of a fetch; pages that block
// it get retried through the browser pool by the fetcher.
type Client struct {
	client  *http.Client
	headers http.Header
	logger  logging.Logger
}

// New constructs a Client. httpClient may be nil, in which case a default
// client with cfg.Timeout is used. cfg.Headers is applied to every request
// and may be overridden per request.
func New(cfg Config, logger logging.Logger, httpClient *http.Client) *Client {
	componentLogger := logger.With(logging.Field{Key: "component", Value: "webclient"})

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	componentLogger.Info("created webclient",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})

	return &Client{
		client:  httpClient,
		headers: cfg.Headers,
		logger:  componentLogger,
	}
}

// Do executes the request. Default headers are applied first; headers on
// the request replace defaults with the same name.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	method := strings.ToUpper(req.Method)

	c.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	headers := c.headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	for k, vs := range req.Headers {
		headers.Del(k)
		for _, v := range vs {
			headers.Add(k, v)
		}
	}
	httpReq.Header = headers

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("http do: %w", err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read response body",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		Request:    req,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req := &Request{
		Method: "GET",
		URL:    url,
	}
	return c.Do(ctx, req)
}

func (c *Client) Close() error {
	c.logger.Info("closing webclient")
	c.client.CloseIdleConnections()
	return nil
}
