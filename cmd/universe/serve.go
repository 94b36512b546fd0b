package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"repo-universe/internal/bridge"
	"repo-universe/internal/client"
	"repo-universe/internal/eventbus"
	"repo-universe/internal/hud"
	"repo-universe/internal/loop"
	"repo-universe/internal/navigation"
	"repo-universe/internal/server"
	"repo-universe/internal/shared/config"
	"repo-universe/internal/shared/logger"
	"repo-universe/internal/shared/redis"
	"repo-universe/internal/shipyard"
	"repo-universe/internal/spatial"
	"repo-universe/internal/system"
	"repo-universe/internal/travel"
	"repo-universe/internal/universe"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const loopBuffer = 1024

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the activity feed and serve the universe over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		logger.Init()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, config.GlobalConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := slog.With("component", "main", "operation", "serve")
	log.Info("Starting universe",
		"login", cfg.GitHub.Username,
		"repos", cfg.GitHub.Repos,
		"feed", cfg.Client.Host,
		"environment", cfg.Server.Environment,
	)

	base := slog.Default()
	mainLoop := loop.New(loopBuffer, base)
	bus := eventbus.New(base)

	allocator := spatial.NewAllocator(cfg.Orbit.Radius, cfg.Orbit.RingCapacity)
	systemService := system.NewService(system.NewRepository(base), allocator, bus, base)
	traveler := travel.NewTimed(cfg.Orbit.JumpDuration, mainLoop)
	shipyardService := shipyard.NewService(shipyard.NewRepository(base), systemService, traveler, nil, bus, base)

	stats := hud.New(bus)
	defer stats.Close()
	navigator := navigation.New(bus, base)

	feed, err := client.New(cfg.Client, mainLoop, base)
	if err != nil {
		return fmt.Errorf("failed to create feed client: %w", err)
	}

	universeService := universe.NewService(
		universe.Identity{Login: cfg.GitHub.Username, Repos: cfg.GitHub.Repos},
		feed, bus, shipyardService, systemService, base,
	)
	universeService.Start()

	rdb, err := redis.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	g, ctx := errgroup.WithContext(ctx)

	if rdb != nil {
		redisBridge := bridge.New(rdb, cfg.Redis.ChannelPrefix, cfg.Redis.BufferSize, base)
		detach := redisBridge.Attach(bus)
		defer detach()
		g.Go(func() error { return redisBridge.Run(ctx) })
	}

	srv := server.New(ctx, cfg, server.Dependencies{
		Caller:    mainLoop,
		Planets:   systemService,
		Ships:     shipyardService,
		Stats:     stats,
		Navigator: navigator,
		Events:    bus,
		Feed:      feed,
		Redis:     rdb,
	}, base)

	g.Go(func() error { return mainLoop.Run(ctx) })
	g.Go(func() error { return feed.Run(ctx) })
	g.Go(func() error { return server.Serve(ctx, srv, base) })

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		log.Info("Universe stopped")
		return nil
	}
	return err
}
