package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"stockbot/internal/config"
	"stockbot/internal/console"
	"stockbot/internal/logging"
	"stockbot/internal/marketdata"
	"stockbot/internal/menu"
	"stockbot/internal/render"
	"stockbot/internal/report"
	"stockbot/internal/settings"
	"stockbot/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "stockbot:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// 2. Settings document. A corrupt file stops here rather than being overwritten.
	st := store.New(cfg.SettingsPath, logger)
	if _, err := st.Load(); err != nil {
		logger.Error("load settings", zap.Error(err))
		return err
	}

	// 3. Market data
	var source marketdata.BarSource
	switch cfg.Provider {
	case config.ProviderYahoo:
		source = marketdata.NewYahooSource(cfg.FetchTimeout)
	default:
		source = marketdata.NewAlpacaSource(cfg.AlpacaKey, cfg.AlpacaSecret, cfg.FetchTimeout)
	}
	client := marketdata.NewClient(source, logger)

	// 4. Console
	var renderer render.Renderer = render.Plain{}
	tty := isatty.IsTerminal(os.Stdout.Fd())
	if tty {
		renderer = render.Styled{}
	}
	c := console.New(os.Stdin, os.Stdout, renderer)
	c.ClearScreen = tty

	logger.Info("starting",
		zap.String("provider", client.Provider()),
		zap.String("settings", cfg.SettingsPath),
	)

	m := menu.New(c, st, settings.NewEditor(c, logger), report.New(client, c, logger), client.Provider(), logger)
	return m.Run()
}
