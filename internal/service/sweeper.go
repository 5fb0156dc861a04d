package service

import (
	"context"
	"sync"
	"time"

	"training_exam_backend/pkg/logger"
	"training_exam_backend/pkg/monitoring"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = 4 * time.Minute

type ExpiredSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// AttemptSweeper periodically closes lapsed attempts so they do not wait for
// the next access. Correctness never depends on it running.
type AttemptSweeper struct {
	Target ExpiredSweeper

	cron    *cron.Cron
	mu      sync.Mutex
	entry   cron.EntryID
	spec    string
	started bool
}

func NewAttemptSweeper(target ExpiredSweeper) *AttemptSweeper {
	return &AttemptSweeper{
		Target: target,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start schedules the sweep; an empty schedule disables it.
func (s *AttemptSweeper) Start(schedule string) error {
	if err := s.Reschedule(schedule); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.cron.Start()
		s.started = true
	}
	return nil
}

// Reschedule swaps the active schedule. An invalid schedule leaves the old one in place.
func (s *AttemptSweeper) Reschedule(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == s.spec && s.entry != 0 {
		return nil
	}

	var next cron.EntryID
	if schedule != "" {
		id, err := s.cron.AddFunc(schedule, s.RunOnce)
		if err != nil {
			return err
		}
		next = id
	}
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = next
	s.spec = schedule

	logger.Log.Info("Attempt sweep scheduled", zap.String("schedule", schedule))
	return nil
}

// RunOnce performs one sweep synchronously.
func (s *AttemptSweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	closed, err := s.Target.SweepExpired(ctx)
	monitoring.SweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Log.Error("Attempt sweep failed", zap.Int("closed", closed), zap.Error(err))
		return
	}
	if closed > 0 {
		logger.Log.Info("Attempt sweep closed expired attempts", zap.Int("closed", closed))
	}
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *AttemptSweeper) Stop() {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()
	if started {
		<-s.cron.Stop().Done()
	}
}
