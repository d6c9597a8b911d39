package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MLGBenProple/Deckle/internal/api"
	"github.com/MLGBenProple/Deckle/internal/config"
	"github.com/MLGBenProple/Deckle/internal/httpclient"
	"github.com/MLGBenProple/Deckle/internal/puzzle"
	"github.com/MLGBenProple/Deckle/internal/scryfall"
	"github.com/MLGBenProple/Deckle/internal/storage"
	"github.com/MLGBenProple/Deckle/internal/storage/repository"
	"github.com/MLGBenProple/Deckle/internal/topdeck"
	"github.com/MLGBenProple/Deckle/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Fprintln(stdout, version.GetVersion())
		return nil
	}

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	db, err := storage.Open(storage.DefaultConfig(cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to sqlite", "path", cfg.Database.Path)

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

	var scheduler *puzzle.Scheduler
	if cfg.Generation.Enabled {
		scheduler, err = puzzle.NewScheduler(trigger, cfg.Generation.Hour, logger)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Error("scheduler shutdown error", "error", err)
			}
		}()
	}

	server := api.NewServer(api.Config{
		Addr:              cfg.Addr(),
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}, games, trigger, db, logger)

	server.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
