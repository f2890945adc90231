// fitbot TUI - An AI fitness coach in your terminal.
//
// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/coach"
	"github.com/fitbotapp/fitbot-tui/internal/config"
	"github.com/fitbotapp/fitbot-tui/internal/store"
	"github.com/fitbotapp/fitbot-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("fitbot %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Debug logging goes to a file; stdout belongs to the TUI.
	if os.Getenv("FITBOT_DEBUG") != "" {
		f, err := tea.LogToFile("fitbot-debug.log", "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}

	db, err := openStore(cfg, dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	mgr := app.NewManager(db)
	if err := mgr.Load(ctx); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	// A missing API key is not fatal: the app runs offline and chat
	// degrades to the apology reply.
	coachClient, err := coach.NewClient(ctx, cfg.Coach.APIKey, cfg.Coach.Model, cfg.Coach.Temperature)
	if err != nil {
		if !errors.Is(err, coach.ErrNotConfigured) {
			return fmt.Errorf("creating coach client: %w", err)
		}
		log.Println("no API key configured; chat will be offline (set GEMINI_API_KEY)")
		coachClient = nil
	}

	p := tea.NewProgram(
		ui.NewModel(mgr, coachClient),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Store program reference so streaming goroutines can deliver
	// messages into the update loop.
	ui.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running fitbot: %w", err)
	}
	return nil
}

// openStore opens the persistence backend selected in the config.
func openStore(cfg *config.Config, dataDir string) (store.DB, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return store.OpenSQLiteDB(filepath.Join(dataDir, "fitbot.db"))
	default:
		return store.OpenFileDB(dataDir)
	}
}
