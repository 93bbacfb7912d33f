// Command ironbook launches the matching engine alongside its OE
// session listener. Configuration is four flags (spec.md names the
// launcher itself as an external collaborator, so it carries no
// config framework), grounded on the teacher's own cmd/server/server.go
// launch sequence: parse flags, build the engine, wire a Reporter,
// then run until an interrupt signal arrives.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ironbook/internal/engine"
	"ironbook/internal/metrics"
	"ironbook/internal/oe/session"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	addr := flag.String("oe-addr", "0.0.0.0", "OE listener bind address")
	port := flag.Int("oe-port", 9001, "OE listener bind port")
	symbols := flag.String("symbols", "BTC-USD,ETH-USD", "comma-separated list of tradable symbols")
	logLevel := flag.String("log-level", "info", "zerolog level: debug, info, warn, error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	var symbolList []string
	for _, s := range strings.Split(*symbols, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			symbolList = append(symbolList, s)
		}
	}

	eng := engine.New(symbolList...)
	mgr := session.New(*addr, *port, eng)

	eng.SetReporter(metrics.MultiReporter{mgr, metrics.NewReporter()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Strs("symbols", symbolList).Int("oe_port", *port).Msg("ironbook starting")
	mgr.Run(ctx)
	log.Info().Msg("ironbook stopped")
}
