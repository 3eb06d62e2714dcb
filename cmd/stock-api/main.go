// Command stock-api serves the Vietnamese stock market read-through cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	a, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("Server stopped with error")
		cleanup()
		os.Exit(1)
	}
	a.Logger.Info().Msg("Server stopped")
}
