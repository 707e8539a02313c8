package server

import (
	"context"

	"github.com/raysh454/kasumi/internal/fetch"
	"github.com/raysh454/kasumi/internal/history"
)

// Fetcher is the slice of the fetch orchestrator the server needs.
type Fetcher interface {
	GetHTML(ctx context.Context, req *fetch.Request) (string, error)
}

// HistoryReader lists recent fetch records for the history endpoint.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}
