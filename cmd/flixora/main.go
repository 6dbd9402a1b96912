// Command flixora is the terminal browser for a Flixora server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handsomefox/flixora/internal/client"
	"github.com/handsomefox/flixora/internal/config"
	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/ui/browse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to the TOML config file")
	serverURL := flag.String("server", "", "server URL, overrides server_url from the config")
	writeConfig := flag.Bool("write-config", false, "write the effective config to --config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *serverURL != "" {
		if err := cfg.SetServerURL(*serverURL); err != nil {
			return err
		}
	}
	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			return err
		}
		fmt.Println("wrote", *configPath)
		return nil
	}

	log, closer, err := logger.NewFile(cfg.LogFile, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close log:", err)
		}
	}()
	slog.SetDefault(log)
	slog.Info("starting", slog.String("server", cfg.ServerURL), slog.String("config", *configPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := browse.New(ctx, client.New(cfg.ServerURL), browse.Options{
		ServerURL:       cfg.ServerURL,
		ImageBase:       cfg.ImageBase,
		SuggestionLimit: cfg.Suggestions.Limit,
		Carousel:        cfg.Carousel.Enabled,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
