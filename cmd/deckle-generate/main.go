// Command deckle-generate builds the daily games for a single date and
// exits. Useful for backfills and cron-driven deployments that don't run
// the in-process scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MLGBenProple/Deckle/internal/config"
	"github.com/MLGBenProple/Deckle/internal/httpclient"
	"github.com/MLGBenProple/Deckle/internal/puzzle"
	"github.com/MLGBenProple/Deckle/internal/scryfall"
	"github.com/MLGBenProple/Deckle/internal/storage"
	"github.com/MLGBenProple/Deckle/internal/storage/repository"
	"github.com/MLGBenProple/Deckle/internal/topdeck"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	dateArg := flag.String("date", "", "date to generate (YYYY-MM-DD, default today UTC)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if *debug || cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	date := time.Now().UTC()
	if *dateArg != "" {
		date, err = time.Parse(storage.DateFormat, *dateArg)
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", *dateArg)
		}
	}

	db, err := storage.Open(storage.DefaultConfig(cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	games := repository.NewGameRepository(db.Conn())

	topdeckTimeout, err := cfg.GetTopdeckTimeout()
	if err != nil {
		return fmt.Errorf("invalid topdeck timeout: %w", err)
	}
	scryfallTimeout, err := cfg.GetScryfallTimeout()
	if err != nil {
		return fmt.Errorf("invalid scryfall timeout: %w", err)
	}

	gateway := topdeck.NewClient(httpclient.New(httpclient.Config{
		BaseURL:    cfg.Topdeck.BaseURL,
		AuthHeader: "Authorization",
		AuthValue:  os.Getenv("TOPDECK_API_KEY"),
		Timeout:    topdeckTimeout,
	}), logger)

	resolver := scryfall.NewResolver(httpclient.New(httpclient.Config{
		BaseURL: cfg.Scryfall.BaseURL,
		Timeout: scryfallTimeout,
	}), logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := puzzle.NewSelector(gateway, rng, logger)
	assembler := puzzle.NewAssembler(selector, resolver, games, logger)
	trigger := puzzle.NewTrigger(assembler, games, logger)

	report := trigger.Generate(ctx, date)
	for mode, result := range report.Results {
		status := string(result.Status)
		if result.Err != nil {
			status = fmt.Sprintf("%s (%v)", status, result.Err)
		}
		fmt.Printf("%s %s: %s\n", report.Date, mode, status)
	}
	if report.Failed() {
		return fmt.Errorf("generation failed for %s", report.Date)
	}
	return nil
}
