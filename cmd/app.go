package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lanshare/internal/cliplugins"
	"lanshare/internal/config"
	"lanshare/internal/discovery"
	"lanshare/internal/identity"
	"lanshare/internal/peers"
	"lanshare/internal/storage/peerstore"
	"lanshare/internal/telemetry"
	"lanshare/internal/util/logger/handlers/slogpretty"
	"lanshare/internal/util/logger/sl"
	"lanshare/internal/watcher"
	"lanshare/pkg/cli"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	configPath := config.FetchPath()
	if configPath == "" {
		panic("config path is empty")
	}
	cfg := config.MustLoadConfig(configPath)

	log := setupLogger(cfg.Env)

	log.Info("starting lanshare",
		slog.String("alias", cfg.Alias),
		slog.Int("port", cfg.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChanel := make(chan os.Signal, 1)
	signal.Notify(signalChanel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signalChanel
		log.Info("shutdown signal received", slog.Any("signal", sig))
		cancel()
	}()

	local, err := identity.Build(cfg.Alias, cfg.Port, cfg.Protocol, cfg.KeyPath)
	if err != nil {
		log.Error("failed to build local identity", sl.Err(err))
		os.Exit(1)
	}

	holder := identity.NewHolder()
	holder.SetCurrent(local)

	log.Info("local identity ready",
		slog.String("alias", local.Alias),
		slog.String("fingerprint", local.Fingerprint),
	)

	registry := peers.NewRegistry()

	store, err := peerstore.New(peerstore.Config{Path: cfg.StorePath})
	if err != nil {
		log.Error("failed to open peer store", sl.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	if cached, err := store.ListPeers(); err == nil {
		log.Info("peers known from last run", slog.Int("count", len(cached)))
	}

	disc := discovery.New(discovery.Config{
		InterfaceAddr:    cfg.Discovery.InterfaceAddr,
		MulticastGroup:   cfg.Discovery.MulticastGroup,
		MulticastPort:    cfg.Discovery.MulticastPort,
		AnnounceInterval: cfg.Discovery.AnnounceInterval,
		DiscoverBurst:    cfg.Discovery.DiscoverBurst,
		RegisterTimeout:  cfg.Discovery.RegisterTimeout,
		RegisterSecret:   cfg.Discovery.RegisterSecret,
	}, registry, holder, log)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- disc.Serve(ctx)
	}()

	go persistSnapshots(ctx, registry, store, log)

	// first burst once the listener has had a moment to bind
	go func() {
		time.Sleep(200 * time.Millisecond)
		if err := disc.Discover(ctx); err != nil {
			log.Warn("initial discovery burst failed", sl.Err(err))
		}
	}()

	confWatcher, err := watcher.New(configPath, 0, func(path string) {
		reloadIdentity(ctx, path, holder, disc, log)
	}, log)
	if err != nil {
		log.Error("config watcher failed", sl.Err(err))
	} else {
		defer confWatcher.Close()
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, telemetry.Handler()); err != nil {
				log.Error("metrics endpoint failed", sl.Err(err))
			}
		}()
	}

	console := cli.NewCLI("lanshare")
	console.RegisterPlugin(cliplugins.NewPeersCommand(registry))
	console.RegisterPlugin(cliplugins.NewDiscoverCommand(disc))
	console.RegisterPlugin(cliplugins.NewForgetCommand(registry, store))

	go func() {
		if err := console.StartInteractive(ctx, os.Stdin, os.Stdout); err != nil {
			log.Error("console failed", sl.Err(err))
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error("discovery failed", sl.Err(err))
		}
		cancel()
	}

	disc.Stop()

	select {
	case <-serveErr:
	case <-time.After(2 * time.Second):
	}

	log.Info("application shutting down gracefully")
}

// reloadIdentity rebuilds the local record from the changed config and
// announces it once so the segment picks up the new alias.
func reloadIdentity(
	ctx context.Context,
	path string,
	holder *identity.Holder,
	disc *discovery.Discovery,
	log *slog.Logger,
) {
	cfg, err := config.Load(path)
	if err != nil {
		log.Error("config reload rejected", sl.Err(err))
		return
	}

	local, err := identity.Build(cfg.Alias, cfg.Port, cfg.Protocol, cfg.KeyPath)
	if err != nil {
		log.Error("identity rebuild failed", sl.Err(err))
		return
	}

	holder.SetCurrent(local)
	log.Info("local identity replaced", slog.String("alias", local.Alias))

	if err := disc.Announce(ctx, 1); err != nil {
		log.Warn("announce after reload failed", sl.Err(err))
	}
}

func persistSnapshots(
	ctx context.Context,
	registry *peers.Registry,
	store *peerstore.Store,
	log *slog.Logger,
) {
	sub := registry.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			if err := store.ReplaceAll(snap); err != nil {
				log.Error("failed to persist peer snapshot", sl.Err(err))
			}
		}
	}
}

func setupLogger(env string) *slog.Logger {

	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
