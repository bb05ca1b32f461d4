package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/edgescan/config"
	"github.com/alejandrodnm/edgescan/internal/adapters/kalshi"
	"github.com/alejandrodnm/edgescan/internal/adapters/notify"
	"github.com/alejandrodnm/edgescan/internal/adapters/polymarket"
	"github.com/alejandrodnm/edgescan/internal/adapters/storage"
	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	paper := flag.Bool("paper", false, "paper trading mode: open simulated positions from scan results")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full tables (default: compact 1-line)")
	platform := flag.String("platform", "", "scan a single platform: kalshi|polymarket (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *platform != "" {
		cfg.Scanner.Platforms = []string{*platform}
	}
	setupLogger(cfg.Log)

	slog.Info("edgescan starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"once", *once,
		"paper", *paper,
		"platforms", cfg.Scanner.Platforms,
	)

	provider, err := buildProvider(cfg)
	if err != nil {
		slog.Error("failed to build providers", "err", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "path", cfg.Storage.Path)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)

	s := scanner.New(scanConfig(cfg, *once), provider, provider, store, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *paper {
		runPaper(ctx, cfg, s, store)
		return
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("edgescan stopped cleanly")
}

// scanConfig traduce la configuración YAML a la del scanner.
func scanConfig(cfg *config.Config, once bool) scanner.Config {
	sc := scanner.DefaultConfig()
	sc.ScanInterval = cfg.ScanInterval()
	sc.RunOnce = once
	sc.BooksPerSecond = float64(cfg.Scanner.BooksPerSecond)
	sc.MinClassScore = cfg.Scanner.MinClassScore
	sc.AnalysisWorkers = cfg.Scanner.AnalysisWorkers
	sc.Criteria = scanner.FilterCriteria{
		MinEdge:     cfg.Scanner.MinEdge,
		MinEV:       cfg.Scanner.MinEV,
		MinFairProb: cfg.Scanner.MinFairProb,
		MaxFairProb: cfg.Scanner.MaxFairProb,
		MinQuantity: cfg.Scanner.MinQuantity,
		MinKelly:    cfg.Scanner.MinKelly,
		MaxKelly:    cfg.Scanner.MaxKelly,
		Platforms:   platformList(cfg.Scanner.Platforms),
		Categories:  cfg.Scanner.Categories,
	}
	sc.Spread = scanner.SpreadConfig{
		MinProfitCents:  cfg.Scanner.SpreadMinCents,
		MaxPositionSize: cfg.Scanner.SpreadMaxSize,
	}
	return sc
}

// buildProvider construye el provider combinado según las plataformas
// habilitadas.
func buildProvider(cfg *config.Config) (*multiProvider, error) {
	mp := newMultiProvider()

	for _, p := range enabledPlatforms(cfg.Scanner.Platforms) {
		switch p {
		case domain.PlatformKalshi:
			mp.add(p, kalshi.NewClient(cfg.API.KalshiBase))
		case domain.PlatformPolymarket:
			mp.add(p, polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase))
		}
	}
	return mp, nil
}

// enabledPlatforms normaliza la lista de config; vacía = todas.
func enabledPlatforms(names []string) []domain.Platform {
	if len(names) == 0 {
		return []domain.Platform{domain.PlatformKalshi, domain.PlatformPolymarket}
	}
	return platformList(names)
}

func platformList(names []string) []domain.Platform {
	out := make([]domain.Platform, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Platform(n))
	}
	return out
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
