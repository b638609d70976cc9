// Command emojikbd-gui runs the emoji translator as a desktop widget.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"emojikbd/cmd/emojikbd-gui/internal/theme"
	"emojikbd/cmd/emojikbd-gui/internal/ui"
	"emojikbd/internal/config"
	"emojikbd/internal/ime"
	"emojikbd/internal/logging"
	"emojikbd/internal/metrics"
	"emojikbd/internal/translate"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: "+config.ConfigPath()+")")
	flag.Parse()

	loader := config.NewLoader(*configPath)
	cfg, cfgErr := loader.Load()
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	logger, err := cfg.NewLogger("gui")
	if err != nil {
		fmt.Fprintf(os.Stderr, "emojikbd-gui: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logging.SetDefault(logger)
	loader.SetLogger(logger.Logger)

	if cfgErr != nil {
		logger.Warn("using default config", "path", loader.Path(), "error", cfgErr)
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title(cfg.Window.Title))
		w.Option(app.Size(unit.Dp(float32(cfg.Window.Width)), unit.Dp(float32(cfg.Window.Height))))

		if err := loop(w, cfg, loader, logger.Logger); err != nil {
			logger.Error("window closed", "error", err)
			logger.Close()
			os.Exit(1)
		}
		logger.Close()
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, cfg *config.Config, loader *config.Loader, log *slog.Logger) error {
	registry := metrics.NewRegistry("emojikbd")
	engine := ime.NewEngine(translate.Default)
	engine.SetLogger(log.With("component", "ime"))
	engine.SetMetrics(metrics.NewIME(registry))
	defer func() {
		engine.Close()
		log.Debug("widget closed", "metrics", registry.Snapshot())
	}()

	th := theme.NewTheme(material.NewTheme(), theme.ParseMode(cfg.Window.Theme))
	translator := ui.NewTranslator(th, engine, keyboardOf(cfg), log)

	loader.OnChange(func(c *config.Config) {
		translator.SetKeyboard(keyboardOf(c))
		translator.SetTheme(theme.NewTheme(material.NewTheme(), theme.ParseMode(c.Window.Theme)))
		w.Invalidate()
	})
	if err := loader.Watch(); err != nil {
		log.Warn("config hot reload disabled", "error", err)
	}
	defer loader.Close()

	log.Info("widget started", "layout", cfg.Keyboard.Layout, "theme", th.Mode)

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			translator.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func keyboardOf(c *config.Config) ui.Keyboard {
	return ui.Keyboard{
		Rows:        c.Rows(),
		ShowLetters: c.Keyboard.ShowLetters,
	}
}
