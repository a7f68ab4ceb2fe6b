// planetrise drives a planet-colored sunrise on a serial-attached LED
// board (and optional network lamp mirrors), reacting to SUNRISE
// commands from the alarm host and to an IR remote.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"planetrise/internal/link"
)

var (
	configPath = ""
	verbose    = false
	listPorts  = false
)

func init() {
	pflag.StringVar(&configPath, "config", configPath, "path to config.json (default: platform config dir)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
	pflag.BoolVar(&listPorts, "list-ports", listPorts, "list serial ports and exit")
}

func main() {
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	if listPorts {
		names, err := link.ListPorts()
		if err != nil {
			logger.Error("listing serial ports failed", "err", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := newApp(logger)
	if err := app.startup(ctx, configPath); err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.shutdown()

	if err := app.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("controller stopped", "err", err)
		os.Exit(1)
	}
}
