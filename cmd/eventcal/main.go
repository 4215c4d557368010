package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"eventcal/internal/config"
	"eventcal/internal/cycle"
	"eventcal/internal/engine"
	appLog "eventcal/internal/log"
	"eventcal/internal/store"
	"eventcal/internal/timer"
	"eventcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(conf.LogLevel)

	// CLI --listen overrides the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("eventcal starting",
		"version", "0.1.0",
		"listen", conf.Listen,
		"data_dir", conf.DataDir,
		"tick_seconds", conf.TickSeconds,
		"definitions", len(conf.Definitions),
		"events", len(conf.Events),
		"once", flags.once,
	)
	defer appLog.Sync()

	definitions := append(timer.BuiltinDefinitions(), conf.Definitions...)

	if flags.once {
		if err := runOnce(conf, definitions); err != nil {
			appLog.Error("one-shot evaluation failed", err)
			os.Exit(1)
		}
		return
	}

	st, err := store.Open(filepath.Join(conf.DataDir, "custom-timers.json"))
	if err != nil {
		appLog.Error("failed to open custom timer store", err, "data_dir", conf.DataDir)
		os.Exit(1)
	}

	eng := engine.New(engine.Options{
		Reset:       conf.Reset,
		Definitions: definitions,
		Events:      conf.Events,
		Store:       st,
		Tick:        time.Duration(conf.TickSeconds) * time.Second,
	})

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	go eng.Run(ctx)

	watcher := cycle.NewWatcher(conf.Reset)
	rollovers := watcher.Subscribe()
	watcher.Start()
	defer watcher.Stop()

	go func() {
		for ids := range rollovers {
			appLog.Info("new cycle started", "daily", ids.Daily, "weekly", ids.Weekly)
		}
	}()

	server := web.NewServer(conf, eng, st)
	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("HTTP server shutdown failed", err)
		}
	}

	appLog.Info("eventcal exiting")
}

// runOnce evaluates every timer a single time and prints the chips to
// stdout. Handy for cron jobs and quick checks without a server.
func runOnce(conf *config.Config, definitions []timer.Definition) error {
	eng := engine.New(engine.Options{
		Reset:       conf.Reset,
		Definitions: definitions,
		Events:      conf.Events,
	})

	snap := eng.Snapshot()
	fmt.Printf("cycles: daily %s, weekly %s\n", snap.Cycles.Daily, snap.Cycles.Weekly)
	for _, chip := range snap.Chips {
		fmt.Printf("%-40s %s\n", chip.Label, chip.Remaining)
	}
	for _, ev := range snap.Events {
		fmt.Printf("%-40s %s\n", ev.Label, ev.Remaining)
	}
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/eventcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Evaluate all timers once, print chips, and exit")

	flag.Parse()

	return cfg
}
