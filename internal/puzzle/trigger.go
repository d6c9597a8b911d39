package puzzle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MLGBenProple/Deckle/internal/storage"
	"github.com/MLGBenProple/Deckle/internal/storage/repository"
)

const (
	// generationAttempts bounds retries of the full build per mode.
	generationAttempts = 3

	generationBackoff = 5 * time.Second
)

// ModeStatus describes what happened for one mode in a generation run.
type ModeStatus string

const (
	StatusCreated ModeStatus = "created"
	StatusSkipped ModeStatus = "skipped"
	StatusFailed  ModeStatus = "failed"
)

// ModeResult is the per-mode outcome of a generation run.
type ModeResult struct {
	Status ModeStatus `json:"status"`
	Err    error      `json:"-"`
}

// MarshalJSON includes the error text, which the error interface alone
// would not serialize.
func (r ModeResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Status ModeStatus `json:"status"`
		Error  string     `json:"error,omitempty"`
	}{Status: r.Status}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// GenerationReport summarizes one Generate call across all modes.
type GenerationReport struct {
	Date    string                `json:"date"`
	Results map[string]ModeResult `json:"results"`
}

// Failed reports whether any mode ended in failure.
func (r GenerationReport) Failed() bool {
	for _, result := range r.Results {
		if result.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Trigger drives daily game generation. Each mode is handled
// independently so one mode failing never blocks the other.
type Trigger struct {
	assembler *Assembler
	games     repository.GameRepository
	logger    *slog.Logger

	attempts int
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewTrigger creates a Trigger.
func NewTrigger(assembler *Assembler, games repository.GameRepository, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{
		assembler: assembler,
		games:     games,
		logger:    logger,
		attempts:  generationAttempts,
		sleep:     sleepContext,
	}
}

// Generate ensures a game exists for every mode on the given date,
// building and persisting any that are missing. Already-generated modes
// are skipped, making the call safe to repeat.
func (t *Trigger) Generate(ctx context.Context, date time.Time) GenerationReport {
	report := GenerationReport{
		Date:    date.Format(storage.DateFormat),
		Results: make(map[string]ModeResult),
	}

	for _, mode := range storage.Modes() {
		result := t.generateMode(ctx, date, mode)
		report.Results[mode] = result

		switch result.Status {
		case StatusCreated:
			t.logger.Info("daily game created", "date", report.Date, "mode", mode)
		case StatusSkipped:
			t.logger.Info("daily game already exists", "date", report.Date, "mode", mode)
		case StatusFailed:
			t.logger.Error("daily game generation failed",
				"date", report.Date, "mode", mode, "error", result.Err)
		}
	}
	return report
}

func (t *Trigger) generateMode(ctx context.Context, date time.Time, mode string) ModeResult {
	dateStr := date.Format(storage.DateFormat)

	exists, err := t.games.Exists(ctx, dateStr, mode)
	if err != nil {
		return ModeResult{Status: StatusFailed, Err: fmt.Errorf("checking existing game: %w", err)}
	}
	if exists {
		return ModeResult{Status: StatusSkipped}
	}

	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		game, err := t.assembler.BuildDailyGame(ctx, date, mode)
		if err == nil {
			err = t.games.Create(ctx, game)
			if err == nil {
				return ModeResult{Status: StatusCreated}
			}
			// Another process won the race; the game exists either way.
			if errors.Is(err, repository.ErrDuplicate) {
				return ModeResult{Status: StatusSkipped}
			}
		}
		lastErr = err
		if attempt < t.attempts {
			t.logger.Warn("retrying game generation",
				"date", dateStr, "mode", mode, "attempt", attempt, "error", err)
			if err := t.sleep(ctx, generationBackoff); err != nil {
				return ModeResult{Status: StatusFailed, Err: err}
			}
		}
	}
	return ModeResult{Status: StatusFailed, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
