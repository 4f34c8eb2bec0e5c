package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/cellwire/cellwire/internal/logging"
	"github.com/cellwire/cellwire/internal/nbhost"
	"github.com/cellwire/cellwire/internal/protocol"
)

func main() {
	url := pflag.String("url", "ws://127.0.0.1:8765/ws", "relay websocket endpoint")
	name := pflag.String("name", "scratch", "simulated notebook name")
	seed := pflag.Int("seed-cells", 3, "number of code cells to pre-populate")
	pflag.Parse()

	logging.ConfigureRuntime()

	notebook := nbhost.NewMemoryNotebook(*name)
	for i := 0; i < *seed; i++ {
		content := fmt.Sprintf("print(%d)", i)
		if _, _, err := notebook.InsertAndExecuteCell("code", i, content); err != nil {
			fmt.Fprintf(os.Stderr, "hostsim: seed cells: %v\n", err)
			os.Exit(1)
		}
	}
	if *seed > 0 {
		_ = notebook.SeedCellOutput(0, "hello from hostsim", protocol.ImageOutput{
			MimeType: "image/png",
			Data:     "iVBORw0KGgo=",
		})
	}

	session, err := nbhost.NewSession(nbhost.DefaultConfig(*url), notebook)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hostsim: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := session.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hostsim: connect: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	log.Info().Str("url", *url).Str("notebook", *name).Msg("hostsim: serving commands")
	if err := session.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hostsim: %v\n", err)
		os.Exit(1)
	}
}
