package fetch

import (
	"context"

	"github.com/raysh454/kasumi/internal/browser"
	"github.com/raysh454/kasumi/internal/history"
	"github.com/raysh454/kasumi/internal/webclient"
)

// Getter is the slice of the web client the fetcher needs. Declaring it
// here keeps the fetcher testable without a concrete HTTP client.
type Getter interface {
	Get(ctx context.Context, url string) (*webclient.Response, error)
}

// Renderer is the slice of the browser tab pool the fetcher needs.
type Renderer interface {
	Render(ctx context.Context, req browser.RenderRequest) (string, error)
}

// Recorder receives one audit record per GetHTML call. Implementations
// must tolerate concurrent calls.
type Recorder interface {
	Record(ctx context.Context, rec history.Record) error
}
