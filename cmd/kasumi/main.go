// Command kasumi starts the HTML fetch service.
// Configuration comes from KASUMI_* environment variables; see internal/app.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/raysh454/kasumi/internal/app"
	"github.com/raysh454/kasumi/internal/logging"

	// Registers the generated swagger spec served under /swagger/.
	_ "github.com/raysh454/kasumi/docs"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("kasumi: %v", err)
	}
}

func run() error {
	cfg, err := app.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}
