// Command shopd runs the bike shop economy engine and its HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/velobay/shopsim/internal/api"
	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/clock"
	"github.com/velobay/shopsim/internal/config"
	"github.com/velobay/shopsim/internal/customer"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/save"
	"github.com/velobay/shopsim/internal/shop"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Catalog ──────────────────────────────────────────────────────
	var cat *catalog.Catalog
	if cfg.Game.CatalogPath != "" {
		cat, err = catalog.Load(cfg.Game.CatalogPath)
		if err != nil {
			slog.Error("failed to load catalog", "path", cfg.Game.CatalogPath, "error", err)
			os.Exit(1)
		}
		slog.Info("catalog loaded", "path", cfg.Game.CatalogPath, "items", len(cat.Items))
	} else {
		cat = catalog.Default()
		slog.Info("using built-in catalog", "items", len(cat.Items))
	}

	// ── Persistence ──────────────────────────────────────────────────
	clk := clock.System{}
	os.MkdirAll(filepath.Dir(cfg.Save.Path), 0755)
	store, err := save.Open(cfg.Save.Path, clk)
	if err != nil {
		slog.Error("failed to open save store", "path", cfg.Save.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("save store opened", "path", cfg.Save.Path)

	// ── Shop ─────────────────────────────────────────────────────────
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bus := events.NewBus(clk)
	sh := shop.New(cat, store, bus, clk, shop.Config{
		Capacity: cfg.Game.Capacity,
		Seed:     seed,
		Weights: customer.Weights{
			Student:    cfg.Game.WeightStudent,
			Commuter:   cfg.Game.WeightCommuter,
			Enthusiast: cfg.Game.WeightEnthusiast,
			Racer:      cfg.Game.WeightRacer,
			Influencer: cfg.Game.WeightInfluencer,
		},
	})

	if sh.HasValidSave() {
		res, err := sh.Load()
		if err != nil {
			slog.Error("failed to restore save", "error", err)
			os.Exit(1)
		}
		st := sh.State()
		slog.Info("session restored",
			"day", st.Day,
			"money", st.Money,
			"reputation", st.Reputation,
			"from_backup", res.RestoredFromBackup,
		)
	} else {
		slog.Info("no saved session found, starting fresh")
	}

	// ── Event feed ───────────────────────────────────────────────────
	hub := api.NewHub()
	bus.Subscribe(hub.Relay())
	go hub.Run()

	// ── HTTP API ─────────────────────────────────────────────────────
	if cfg.Server.AdminKey == "" {
		slog.Warn("ADMIN_KEY not set, admin endpoints disabled")
	}
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      api.NewServer(sh, hub, cfg.Server.AdminKey).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	// ── Day loop ─────────────────────────────────────────────────────
	loop := shop.NewLoop(sh)
	loop.Interval = cfg.Game.DayInterval
	if !cfg.Game.AutoAdvance {
		loop.Speed = 0
	}
	go loop.Run()

	st := sh.State()
	fmt.Printf("\nShop open: day %d, %d in the till, reputation %d.\n", st.Day, st.Money, st.Reputation)
	fmt.Printf("API: http://%s/api/status\n", cfg.Server.Address())
	fmt.Println("Running... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	loop.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}

	// Final checkpoint on shutdown.
	if err := sh.Save(); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Shop closed. Session saved.")
}
