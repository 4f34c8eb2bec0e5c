package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/cellwire/cellwire/internal/caller"
	"github.com/cellwire/cellwire/internal/config"
	"github.com/cellwire/cellwire/internal/logging"
	"github.com/cellwire/cellwire/internal/protocol"
)

func main() {
	configPath := pflag.String("config", "", "path to caller TOML config")
	url := pflag.String("url", "", "relay websocket endpoint (overrides config)")
	batch := pflag.Bool("batch", false, "run the scripted command sequence and exit")
	pflag.Parse()

	logging.ConfigureRuntime()

	cfg, err := config.LoadCallerConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "callerctl: %v\n", err)
		os.Exit(1)
	}
	if pflag.CommandLine.Changed("url") {
		cfg.RelayURL = *url
	}

	client, err := caller.NewClient(caller.Config{
		URL:            cfg.RelayURL,
		DialTimeout:    cfg.DialTimeout,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "callerctl: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "callerctl: %v\n", err)
		os.Exit(1)
	}
	color.Green("connected to %s", cfg.RelayURL)

	if *batch {
		if err := runBatch(ctx, client); err != nil {
			fmt.Fprintf(os.Stderr, "callerctl: batch: %v\n", err)
			os.Exit(1)
		}
		return
	}
	runMenu(ctx, client)
}

func runMenu(ctx context.Context, client *caller.Client) {
	in := bufio.NewScanner(os.Stdin)
	for {
		printMenu()
		choice, ok := prompt(in, "select an option: ")
		if !ok {
			return
		}
		if choice == "0" {
			return
		}
		if err := runChoice(ctx, client, in, choice); err != nil {
			if ctx.Err() != nil {
				return
			}
			color.Red("command failed: %v", err)
		}
	}
}

func printMenu() {
	header := color.New(color.FgCyan, color.Bold)
	header.Println("\n=== cellwire caller ===")
	fmt.Println(" 1. insert and execute a cell")
	fmt.Println(" 2. save notebook")
	fmt.Println(" 3. cells info")
	fmt.Println(" 4. notebook info")
	fmt.Println(" 5. run one cell")
	fmt.Println(" 6. run all cells")
	fmt.Println(" 7. cell text output")
	fmt.Println(" 8. cell image output")
	fmt.Println(" 9. edit cell content")
	fmt.Println("10. set slideshow type")
	fmt.Println(" 0. exit")
}

func runChoice(ctx context.Context, client *caller.Client, in *bufio.Scanner, choice string) error {
	switch choice {
	case "1":
		content, _ := prompt(in, "code to execute: ")
		position := promptInt(in, "position (enter for end): ", -1)
		return show(client.InsertAndExecuteCell(ctx, "code", position, content))
	case "2":
		return show(client.SaveNotebook(ctx))
	case "3":
		return show(client.GetCellsInfo(ctx))
	case "4":
		return show(client.GetNotebookInfo(ctx))
	case "5":
		index := promptInt(in, "cell index: ", 0)
		return show(client.RunCell(ctx, index))
	case "6":
		return show(client.RunAllCells(ctx))
	case "7":
		index := promptInt(in, "cell index: ", 0)
		maxLength := promptInt(in, "max length (enter for 1500): ", 1500)
		return show(client.GetCellTextOutput(ctx, index, maxLength))
	case "8":
		index := promptInt(in, "cell index: ", 0)
		return show(client.GetCellImageOutput(ctx, index))
	case "9":
		index := promptInt(in, "cell index: ", 0)
		content, _ := prompt(in, "new content: ")
		execute := promptBool(in, "execute after edit? (y/n): ")
		return show(client.EditCellContent(ctx, index, content, execute))
	case "10":
		index := promptInt(in, "cell index: ", 0)
		slideshowType, _ := prompt(in, "slideshow type (slide/subslide/fragment/skip/notes/-): ")
		return show(client.SetSlideshowType(ctx, index, slideshowType))
	default:
		color.Yellow("invalid option: %s", choice)
		return nil
	}
}

func runBatch(ctx context.Context, client *caller.Client) error {
	steps := []struct {
		name string
		call func() error
	}{
		{"insert and execute", func() error {
			return show(client.InsertAndExecuteCell(ctx, "code", 0, "print('cellwire batch')"))
		}},
		{"notebook info", func() error { return show(client.GetNotebookInfo(ctx)) }},
		{"cells info", func() error { return show(client.GetCellsInfo(ctx)) }},
		{"run cell 0", func() error { return show(client.RunCell(ctx, 0)) }},
		{"cell 0 text output", func() error { return show(client.GetCellTextOutput(ctx, 0, 1500)) }},
		{"save notebook", func() error { return show(client.SaveNotebook(ctx)) }},
		{"run all cells", func() error { return show(client.RunAllCells(ctx)) }},
		{"cell 0 image output", func() error { return show(client.GetCellImageOutput(ctx, 0)) }},
		{"edit cell 0", func() error {
			return show(client.EditCellContent(ctx, 0, "print('edited by callerctl')", true))
		}},
		{"set slideshow type", func() error { return show(client.SetSlideshowType(ctx, 0, "slide")) }},
	}
	for _, step := range steps {
		color.Cyan("\n=== %s ===", step.name)
		if err := step.call(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	color.Green("\nall batch steps completed")
	return nil
}

func show(result protocol.Result, err error) error {
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	text := string(result.Raw)
	if err := json.Indent(&buf, result.Raw, "", "  "); err == nil {
		text = buf.String()
	}
	if result.IsError() {
		color.Red("%s", text)
		return nil
	}
	fmt.Println(text)
	return nil
}

func prompt(in *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func promptInt(in *bufio.Scanner, label string, fallback int) int {
	raw, ok := prompt(in, label)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		color.Yellow("not a number, using %d", fallback)
		return fallback
	}
	return v
}

func promptBool(in *bufio.Scanner, label string) bool {
	raw, ok := prompt(in, label)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(raw), "y")
}
