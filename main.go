package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"goodstore/app/api"
	"goodstore/app/client/assistant"
	"goodstore/app/config"
	"goodstore/app/service/mcptools"
	"goodstore/app/service/sessions"
	"goodstore/app/service/venues"
	"goodstore/app/service/viewport"
	"goodstore/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, assistant.NewClient)
	do.Provide(di, venues.New)
	do.Provide(di, viewport.NewQueue)
	do.Provide(di, sessions.New)
	do.Provide(di, api.New)
	do.Provide(di, mcptools.New)

	slog.Info("Service started", "backend", cfg.Backend.URL)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		return do.MustInvoke[*api.Server](di).Run(groupCtx)
	})
	group.Go(func() error {
		return do.MustInvoke[*mcptools.Service](di).Run(groupCtx)
	})
	group.Go(func() error {
		do.MustInvoke[*viewport.Queue](di).Run(groupCtx, viewport.LogSink)
		return nil
	})
	group.Go(func() error {
		do.MustInvoke[*sessions.Registry](di).RunCleanupLoop(groupCtx)
		return nil
	})

	if err = group.Wait(); err != nil {
		slog.Error("Service stopped", "error", err)
	}
}
