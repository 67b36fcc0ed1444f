// Skim - gesture-driven feed triage
//
// Layering:
//   internal/repo    - merged content sources behind the offline cache
//   internal/triage  - per-item read/starred/read-later state
//   internal/cache   - versioned offline cache with an update lifecycle
//   internal/ui      - Bubble Tea view, gesture recognizer on top
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmunkitt/skim/internal/cache"
	"github.com/kmunkitt/skim/internal/config"
	"github.com/kmunkitt/skim/internal/logging"
	"github.com/kmunkitt/skim/internal/repo"
	"github.com/kmunkitt/skim/internal/store"
	"github.com/kmunkitt/skim/internal/triage"
	"github.com/kmunkitt/skim/internal/ui"
)

func main() {
	if err := logging.Init(config.LogDir()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	logging.Info("Skim starting")

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	st, err := store.Open(filepath.Join(dataDir, "skim.db"))
	if err != nil {
		fatal("Failed to open state store: %v", err)
	}
	defer st.Close()

	cacheDB, err := cache.Open(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		fatal("Failed to open cache: %v", err)
	}
	defer cacheDB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generation := cfg.Cache.Version
	lifecycle := cache.NewLifecycle(cacheDB, nil, generation, cfg.Cache.Assets)
	go lifecycle.Run(ctx)

	// Anything else still cached is a previous version that keeps
	// serving until the new generation takes control.
	gens, err := cacheDB.Generations()
	if err != nil {
		logging.Warn("Failed to inspect cache generations", "error", err)
	}
	serving := cache.ActiveGeneration(gens, generation)
	updateWaiting := serving != generation

	proxy := cache.NewProxy(cacheDB, http.DefaultTransport, serving)
	client := &http.Client{
		Transport: proxy,
		Timeout:   30 * time.Second,
	}

	revalidate := time.Duration(cfg.UI.RefreshMinutes) * time.Minute
	sources := repo.New(client, cfg.Sources, revalidate)
	state := triage.Load(st)

	app := ui.New(sources, state, lifecycle, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// The took-control event switches the serving generation before the
	// UI is told to reload, so the reload already sees the new cache.
	go func() {
		for gen := range lifecycle.TookControl() {
			proxy.SetGeneration(gen)
			p.Send(ui.UpdateTookControlMsg{Generation: gen})
		}
	}()

	go func() {
		base := assetBase(cfg.Sources.FeedURL)
		if err := lifecycle.Install(ctx, base); err != nil {
			logging.Error("Cache install failed", "error", err)
			return
		}
		if updateWaiting {
			// Hold the new generation until the user opts in.
			p.Send(ui.UpdateWaitingMsg{})
			return
		}
		lifecycle.SkipWaiting()
	}()

	if _, err := p.Run(); err != nil {
		logging.Error("Application error", "error", err)
		fatal("Error: %v", err)
	}

	logging.Info("Skim exiting normally")
}

// assetBase derives the origin the static asset list is fetched from.
func assetBase(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
