// Package scheduler runs the alarm delivery loop: on a fixed cadence it
// selects due alarms, hands them to the notifier, and retires them.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/timeutil"
)

// Notifier fans a triggered alarm out to delivery channels. Delivery is best
// effort; the scheduler retires the alarm no matter what.
type Notifier interface {
	NotifyAlarm(ctx context.Context, alarm *model.Alarm)
}

type Scheduler struct {
	alarms   store.Alarms
	clock    *timeutil.Clock
	notifier Notifier
	interval time.Duration
	cron     *cron.Cron
	log      zerolog.Logger

	// sweepMu serializes sweeps across entry points. The cron chain only
	// covers cron ticks; the startup sweep runs on its own goroutine.
	sweepMu sync.Mutex
}

func New(alarms store.Alarms, clock *timeutil.Clock, notifier Notifier, interval time.Duration) *Scheduler {
	return &Scheduler{
		alarms:   alarms,
		clock:    clock,
		notifier: notifier,
		interval: interval,
		log:      logger.New("scheduler"),
	}
}

// Start runs one sweep immediately, then on every interval. Ticks never
// overlap: a slow sweep makes the next one skip rather than stack.
func (s *Scheduler) Start() error {
	cl := cronLogger{s.log}
	s.cron = cron.New(
		cron.WithLocation(s.clock.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.sweep); err != nil {
		return err
	}
	go s.sweep()
	s.cron.Start()
	s.log.Info().Dur("interval", s.interval).Msg("alarm scheduler started")
	return nil
}

// Stop halts the cadence and waits for an in-flight sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) sweep() {
	// A sweep still in flight owns the current due set; running a second one
	// against it would deliver the same alarms twice.
	if !s.sweepMu.TryLock() {
		s.log.Debug().Msg("sweep already in flight, skipping")
		return
	}
	defer s.sweepMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	now := s.clock.NowString()
	due, err := s.alarms.ListDue(ctx, now)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("due-alarm query failed")
		return
	}

	for _, alarm := range due {
		s.log.Info().
			Int64("alarm_id", alarm.ID).
			Str("title", alarm.Title).
			Str("trigger_at", alarm.TriggerAt).
			Msg("alarm triggered")

		s.notifier.NotifyAlarm(ctx, alarm)

		// Retire even if delivery misfired: alarms fire at most once.
		if err := s.alarms.MarkTriggered(ctx, alarm.ID); err != nil {
			s.log.Error().Stack().Err(err).Int64("alarm_id", alarm.ID).Msg("failed to retire alarm")
		}
	}
}

// cronLogger adapts zerolog to the cron logging interface.
type cronLogger struct{ log zerolog.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.log.Debug().Fields(kv).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.log.Error().Err(err).Fields(kv).Msg(msg)
}
