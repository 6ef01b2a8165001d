package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/gorilla/mux"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/config"
	"github.com/thurmanmarka/dstglide/internal/places"
	"github.com/thurmanmarka/dstglide/internal/render"
	"github.com/thurmanmarka/dstglide/internal/server"
	"github.com/thurmanmarka/dstglide/internal/store"
)

var (
	configPath = flag.String("config", "dstglide.yaml", "path to the YAML config file (created with defaults if missing)")
	listen     = flag.String("listen", "", "listen address (overrides config)")
	verbose    = flag.Bool("verbose", false, "enable verbose logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(logger, "loading config", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	provider, err := dstglide.ProviderByName(cfg.Provider)
	if err != nil {
		fatal(logger, "selecting provider", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.Redis.Enabled() {
		client, err := store.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			fatal(logger, "connecting to redis", err)
		}
		defer client.Close()
		st = store.New(client, cfg.Redis.Prefix,
			store.WithTTL(cfg.Redis.TTL),
			store.WithLogger(logger))
		logger.Info("persisting matrices in redis", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	matrices := server.NewMatrices(server.MatricesConfig{
		Places:       places.New(cfg.Places...),
		Provider:     dstglide.NewCachedProvider(provider, 0),
		ProviderName: cfg.Provider,
		CacheSize:    cfg.CacheSize,
		Store:        st,
		Logger:       logger,
	})
	chart := render.ChartOptions{
		BucketMinutes: cfg.Chart.BucketMinutes,
		NightColor:    cfg.Chart.NightColor,
		DayColor:      cfg.Chart.DayColor,
		MonthLines:    cfg.Chart.MonthLines,
	}

	muxRouter := mux.NewRouter()
	router := server.NewRouter(server.NewDaylightHandler(matrices, chart, logger), muxRouter)
	srv := server.NewHTTPServer(cfg.Listen, router, muxRouter, logger)

	if err := srv.Run(ctx); err != nil {
		fatal(logger, "server error", err)
	}
	logger.Info("server exiting")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
