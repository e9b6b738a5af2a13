package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/sleeper/internal/capability"
	"github.com/udisondev/sleeper/internal/config"
	"github.com/udisondev/sleeper/internal/db"
	"github.com/udisondev/sleeper/internal/filter"
	"github.com/udisondev/sleeper/internal/gameserver"
	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/gameserver/admin/commands"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/sleep"
	"github.com/udisondev/sleeper/internal/tick"
	"github.com/udisondev/sleeper/internal/world"
)

const DefaultConfigPath = "config/sleeper.yaml"

func main() {
	configPath := pflag.StringP("config", "c", DefaultConfigPath, "path to the YAML config file")
	logLevel := pflag.String("log-level", "", "log level override (debug, info, warn, error)")
	pflag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *logLevel); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, logLevelOverride string) error {
	// Load config FIRST to determine log level
	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logLevelOverride != "" {
		cfg.LogLevel = logLevelOverride
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	slog.Info("sleeper server starting",
		"config", configPath,
		"log_level", cfg.LogLevel,
		"host_version", cfg.Host.Version,
		"storage", cfg.Storage.Driver)

	repo, err := db.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()
	persistence := db.NewPlayerPersistenceService(repo)

	w := world.New(model.NewLocation(cfg.Spawn.X, cfg.Spawn.Y, cfg.Spawn.Z))
	loop := tick.NewLoop(cfg.Logic.TickInterval, cfg.Logic.TaskQueueSize)

	srv, err := gameserver.NewServer(cfg, w, loop, persistence)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Sleep status: storage, layout resolution, rewriters and the authority.
	store := sleep.NewContainerStore()
	resolver := capability.NewResolver(capability.VersionProbe{
		Version:                  cfg.Host.Version,
		BedPositionIndexOverride: cfg.Host.BedPositionIndex,
		PoseIndexOverride:        cfg.Host.PoseIndex,
	})
	metadataFilter := filter.NewMetadata(resolver, store, w, srv.ClientManager())
	authority := sleep.NewAuthority(store, metadataFilter, srv.Handler())
	metadataFilter.Register(srv.Interceptors())
	filter.NewLeaveBed(loop, authority).Register(srv.Interceptors())

	authority.OnStatusChange(func(req *sleep.TransitionRequest) {
		slog.Info("sleep status change",
			"player", req.Player.Name(),
			"from", req.Old,
			"to", req.New)
	})

	adminHandler := admin.NewHandler(admin.NewOperatorList(cfg.Operators))
	commands.RegisterAll(adminHandler, gameserver.NewAdminClientAdapter(srv.ClientManager()), srv.Handler(), authority)
	srv.Handler().SetCommands(adminHandler)
	slog.Info("chat commands registered", "count", adminHandler.CommandCount())

	loop.Register("keepalive", srv.KeepAliveHook())
	autosaver := gameserver.NewAutosaver(ctx, srv)
	if cfg.Logic.AutosaveInterval > 0 {
		loop.Register("autosave", autosaver.Hook(cfg.Logic.AutosaveInterval))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("logic loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("listening", "address", cfg.BindAddress, "port", cfg.Port)
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	err = g.Wait()
	autosaver.Wait()

	if err != nil {
		return err
	}
	slog.Info("sleeper server stopped")
	return nil
}
