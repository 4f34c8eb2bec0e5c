package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/cellwire/cellwire/internal/config"
	"github.com/cellwire/cellwire/internal/logging"
	"github.com/cellwire/cellwire/internal/relay"
)

func main() {
	configPath := pflag.String("config", "", "path to relay TOML config")
	host := pflag.String("host", "", "listen host (overrides config)")
	port := pflag.Int("port", 0, "listen port (overrides config)")
	maxAttempts := pflag.Int("max-port-attempts", 0, "sequential ports to try when busy (overrides config)")
	logLevel := pflag.String("log-level", "", "log level: trace, debug, info, warn, error")
	pflag.Parse()

	if pflag.CommandLine.Changed("log-level") {
		os.Setenv(logging.EnvLogLevel, *logLevel)
	}
	logging.ConfigureRuntime()

	cfg, err := config.LoadRelayConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "relayctl: %v\n", err)
		os.Exit(1)
	}
	if pflag.CommandLine.Changed("host") {
		cfg.Host = *host
	}
	if pflag.CommandLine.Changed("port") {
		cfg.Port = *port
	}
	if pflag.CommandLine.Changed("max-port-attempts") {
		cfg.MaxPortAttempts = *maxAttempts
	}
	if err := config.ValidateRelayConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "relayctl: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := relay.NewServer(relay.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxPortAttempts: cfg.MaxPortAttempts,
		AllowedOrigins:  cfg.AllowedOrigins,
	})
	if err := server.Run(ctx); err != nil {
		// A failed bind is the only fatal startup error.
		log.Error().Err(err).Msg("relayctl: exiting")
		os.Exit(1)
	}
}
