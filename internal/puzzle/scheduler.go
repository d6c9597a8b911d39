package puzzle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the daily generation job at a fixed UTC hour.
type Scheduler struct {
	sched   gocron.Scheduler
	trigger *Trigger
	logger  *slog.Logger
}

// NewScheduler creates a scheduler that invokes trigger.Generate once a
// day at hour:00 UTC. It also runs the trigger immediately on Start so a
// freshly deployed instance backfills today's games.
func NewScheduler(trigger *Trigger, hour int, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	s := &Scheduler{sched: sched, trigger: trigger, logger: logger}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
		gocron.NewTask(s.run),
	)
	if err != nil {
		return nil, fmt.Errorf("registering daily job: %w", err)
	}
	return s, nil
}

// Start begins the schedule and kicks off an immediate generation pass.
func (s *Scheduler) Start() {
	s.sched.Start()
	go s.run()
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report := s.trigger.Generate(ctx, time.Now().UTC())
	if report.Failed() {
		s.logger.Error("scheduled generation finished with failures", "date", report.Date)
		return
	}
	s.logger.Info("scheduled generation finished", "date", report.Date)
}
