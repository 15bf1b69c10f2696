package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/console"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := console.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
