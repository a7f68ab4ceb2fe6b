package fixture

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/mdns"
)

// DiscoverElgato queries mDNS for key lights (_elg._tcp) and registers
// every responder with the sink. Returns how many were found.
func DiscoverElgato(ctx context.Context, sink *ElgatoSink, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	entries := make(chan *mdns.ServiceEntry, 10)
	go func() {
		params := &mdns.QueryParam{
			Service:             "_elg._tcp",
			Domain:              "local",
			Timeout:             3 * time.Second,
			Entries:             entries,
			DisableIPv6:         true,
			WantUnicastResponse: true,
		}
		if err := mdns.Query(params); err != nil {
			logger.Warn("mdns query failed", "err", err)
		}
		close(entries)
	}()

	found := 0
	for entry := range entries {
		if ctx.Err() != nil {
			return found
		}
		addr := entry.AddrV4.String()
		if addr == "" || addr == "<nil>" {
			continue
		}
		if err := sink.Add(addr); err != nil {
			logger.Warn("key light registration failed", "addr", addr, "err", err)
			continue
		}
		found++
	}
	return found
}
