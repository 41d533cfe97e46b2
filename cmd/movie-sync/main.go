// Package main is the entry point for the movie catalog sync job. It runs
// one synchronization pass to completion and exits; scheduling is external.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"movie-sync-go/internal/app"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Shutdown()

	if err := application.Run(ctx); err != nil {
		application.Log.Error("run aborted", "error", err)
		os.Exit(1)
	}
}
