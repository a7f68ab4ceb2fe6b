package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"planetrise/internal/display"
	"planetrise/internal/engine"
	"planetrise/internal/fixture"
	"planetrise/internal/link"
	"planetrise/internal/preset"
	"planetrise/internal/remote"
	"planetrise/internal/store"
)

// App wires the store, links, sinks, displays and decoder into one
// controller.
type App struct {
	log     *slog.Logger
	store   *store.Store
	board   *link.Link
	sinks   *fixture.Manager
	decoder remote.Decoder
	ctrl    *engine.Controller
}

func newApp(logger *slog.Logger) *App {
	return &App{log: logger}
}

func (a *App) startup(ctx context.Context, configPath string) error {
	s, err := store.New(configPath)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	a.store = s
	cfg := s.GetConfig()

	table, err := preset.NewTable(cfg.Presets)
	if err != nil {
		return err
	}
	a.log.Info("presets loaded", "count", table.Len())

	board, err := link.Open(cfg.Link.Port, cfg.Link.Baud, a.log)
	if err != nil {
		return fmt.Errorf("fixture board: %w", err)
	}
	a.board = board

	a.sinks = fixture.NewManager(a.log)
	a.sinks.Register(fixture.NewBoardSink(board))
	a.registerMirrors(ctx, cfg.Mirrors)

	displays := display.Multi{display.NewBoardDisplay(board, cfg.Settings.DisplayWidth, a.log)}
	if cfg.Settings.ConsoleDisplay {
		displays = append(displays, display.NewConsoleDisplay(os.Stderr, cfg.Settings.DisplayWidth))
	}

	a.decoder = remote.Nop{}
	if cfg.Remote.Port != "" {
		remoteLink, err := link.Open(cfg.Remote.Port, cfg.Remote.Baud, a.log)
		if err != nil {
			// The alarm still works without its remote; keep going.
			a.log.Warn("IR receiver unavailable", "port", cfg.Remote.Port, "err", err)
		} else {
			a.decoder = remote.NewSerialDecoder(remoteLink, a.log)
		}
	}

	actions, err := remoteActions(cfg.Remote)
	if err != nil {
		return err
	}

	ctrl, err := engine.New(engine.Config{
		Logger:    a.log,
		Selection: preset.NewSelection(table),
		Sink:      a.sinks,
		Display:   displays,
		Commands:  board,
		Decoder:   a.decoder,
		Actions:   actions,
		Tick:      time.Duration(cfg.Settings.TickMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	a.ctrl = ctrl
	return nil
}

// registerMirrors attaches the configured network lamps. All of this is
// best-effort; a missing lamp never blocks the alarm.
func (a *App) registerMirrors(ctx context.Context, m store.Mirrors) {
	if m.LIFX {
		lifx := fixture.NewLIFXSink(a.log)
		if n, err := lifx.Discover(ctx); err != nil {
			a.log.Warn("lifx discovery failed", "err", err)
		} else if n > 0 {
			a.sinks.Register(lifx)
		}
	}

	if m.Elgato || len(m.ElgatoAddrs) > 0 {
		elgato := fixture.NewElgatoSink(a.log)
		for _, addr := range m.ElgatoAddrs {
			if err := elgato.Add(addr); err != nil {
				a.log.Warn("key light unavailable", "addr", addr, "err", err)
			}
		}
		if m.Elgato {
			if found := fixture.DiscoverElgato(ctx, elgato, a.log); found > 0 {
				if err := a.store.SetElgatoAddrs(elgato.Addrs()); err != nil {
					a.log.Warn("could not persist key light addresses", "err", err)
				}
			}
		}
		if len(elgato.Addrs()) > 0 {
			a.sinks.Register(elgato)
		}
	}

	if len(m.HueBridges) > 0 {
		hue := fixture.NewHueSink(a.log)
		for _, b := range m.HueBridges {
			if err := hue.AddBridge(b.IP, b.AppKey); err != nil {
				a.log.Warn("hue bridge unavailable", "ip", b.IP, "err", err)
			}
		}
		refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		n, err := hue.Refresh(refreshCtx)
		cancel()
		if err != nil {
			a.log.Warn("hue refresh failed", "err", err)
		}
		if n > 0 {
			a.sinks.Register(hue)
		}
	}
}

func remoteActions(cfg store.RemoteConfig) (map[remote.Code]remote.Action, error) {
	actions := make(map[remote.Code]remote.Action, 2)
	for codeStr, action := range map[string]remote.Action{
		cfg.UpCode:   remote.ActionSelectUp,
		cfg.DownCode: remote.ActionSelectDown,
	} {
		if codeStr == "" {
			continue
		}
		code, err := remote.ParseCode(codeStr)
		if err != nil {
			return nil, fmt.Errorf("remote config: %w", err)
		}
		actions[code] = action
	}
	return actions, nil
}

func (a *App) run(ctx context.Context) error {
	return a.ctrl.Run(ctx)
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if a.sinks != nil {
		_ = a.sinks.Off(ctx)
		_ = a.sinks.Close()
	}
	if a.decoder != nil {
		_ = a.decoder.Close()
	}
	if a.board != nil {
		_ = a.board.Close()
	}
}
