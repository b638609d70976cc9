//go:build linux

// emojikbd-ibus is the Linux IBus input method engine for the emoji
// keyboard.
//
// Installation:
//  1. Copy binary to /usr/local/bin/emojikbd-ibus
//  2. Run: emojikbd-ibus -install
//  3. Restart IBus: ibus restart
//  4. Enable via: ibus-setup or GNOME Settings > Keyboard > Input Sources
//
// While enabled, letters and space typed into any focused text field are
// committed as their glyphs. Everything else reaches the application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"emojikbd/internal/config"
	"emojikbd/internal/ime"
	"emojikbd/internal/logging"
	"emojikbd/internal/metrics"
	"emojikbd/internal/translate"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	installFlag := flag.Bool("install", false, "Install IBus component")
	uninstallFlag := flag.Bool("uninstall", false, "Uninstall IBus component")
	metricsFile := flag.String("metrics-file", "", "write Prometheus metrics to this file on SIGUSR1 and at exit")
	flag.Bool("ibus", false, "Started by ibus-daemon")
	flag.Parse()

	cfg, err := config.Load(pathOrDefault(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "emojikbd-ibus: %v\n", err)
		os.Exit(1)
	}

	if *installFlag {
		path, err := installComponent(cfg.IBus.BusName, cfg.IBus.EngineName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to install: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Installed %s. Run 'ibus restart' to load.\n", path)
		return
	}

	if *uninstallFlag {
		path, err := uninstallComponent(cfg.IBus.EngineName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to uninstall: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %s.\n", path)
		return
	}

	logger, err := cfg.NewLogger("ibus")
	if err != nil {
		fmt.Fprintf(os.Stderr, "emojikbd-ibus: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	if err := run(cfg, logger, *metricsFile); err != nil {
		logger.Error("ibus engine failed", "error", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger, metricsFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry("emojikbd")
	factory := ime.NewIBusFactory(ime.IBusConfig{
		BusName:    cfg.IBus.BusName,
		EngineName: cfg.IBus.EngineName,
		Address:    cfg.IBus.Address,
	}, translate.Default, logger.WithComponent("ibus").Logger)
	factory.SetMetrics(metrics.NewIME(registry))

	if err := factory.Start(ctx); err != nil {
		return err
	}

	dump := make(chan os.Signal, 1)
	signal.Notify(dump, syscall.SIGUSR1)
	defer signal.Stop(dump)

	for {
		select {
		case <-dump:
			if err := writeMetrics(registry, metricsFile); err != nil {
				logger.Warn("write metrics failed", "error", err)
			}
		case <-ctx.Done():
			logger.Info("shutting down", "engines", factory.Engines(), "metrics", registry.Snapshot())
			if err := writeMetrics(registry, metricsFile); err != nil {
				logger.Warn("write metrics failed", "error", err)
			}
			return factory.Stop()
		}
	}
}

// writeMetrics replaces path with the registry's Prometheus text.
// An empty path writes nothing.
func writeMetrics(r *metrics.Registry, path string) error {
	if path == "" {
		return nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".metrics-*")
	if err != nil {
		return err
	}
	if err := r.WritePrometheus(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func pathOrDefault(path string) string {
	if path == "" {
		return config.ConfigPath()
	}
	return path
}
