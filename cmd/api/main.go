package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/repo"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-subscriber-go")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// init storage
	cfg := database.ConfigFromEnv()
	var store subscriber.Repository
	if cfg.Driver == database.DriverMemory {
		sugar.Warn("using in-memory storage; data is lost on exit")
		store = repo.NewMemoryRepo()
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			sugar.Fatalf("db connect: %v", err)
		}
		defer db.Close()

		r := repo.NewSubscriberRepo(db)
		initCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		err = r.EnsureTable(initCtx)
		cancel()
		if err != nil {
			sugar.Fatalf("ensure table: %v", err)
		}
		store = r
	}
	sugar.Infow("storage ready", "driver", cfg.Driver)

	svc := subscriber.NewService(store, sugar)

	// mount http server
	addr := utilities.EnvOr("HTTP_ADDR", "127.0.0.1:3000")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.RegisterRoutes(sugar, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// run server in background
	go func() {
		sugar.Infow("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for in-flight requests
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.Ping(doneCtx); err != nil {
		sugar.Warnf("storage ping on shutdown failed: %v", err)
	}

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
