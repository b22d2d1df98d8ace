// Command veil-server runs the Veil backend: the VeilService gRPC endpoint
// and the HTTP health, docs and confirmation routes.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/dmitrijs2005/veil/internal/server"
	"github.com/dmitrijs2005/veil/internal/server/config"
)

func main() {
	ctx := context.Background()
	logger := logging.NewJSON(os.Stderr, slog.LevelInfo)

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		logger.Error(ctx, "Startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
