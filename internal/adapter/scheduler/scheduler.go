// Package scheduler runs periodic jobs on cron expressions or fixed-interval
// tickers.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is a scheduled unit of work.
type JobFunc func(ctx context.Context) error

// TickerJobID identifies a fixed-interval job.
type TickerJobID int

// JobOptions tune a single job.
type JobOptions struct {
	// Name identifies the job in logs.
	Name string
	// Timeout bounds one execution; 0 means unbounded.
	Timeout time.Duration
	// SkipIfRunning drops a tick while the previous run is still going.
	SkipIfRunning bool
}

// Scheduler manages cron and ticker jobs with shared lifecycle and logging.
// Cron jobs fire only after Start; ticker jobs run as soon as they are added.
type Scheduler struct {
	cron   *cron.Cron
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	nextTickerID TickerJobID

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a Scheduler; jobs run until Stop or until ctx is done.
func New(ctx context.Context, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	jobCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithLogger(cronLogger{log}))
	return &Scheduler{cron: c, log: log, ctx: jobCtx, cancel: cancel, nextTickerID: 1}
}

// AddJob registers a job under a cron expression (standard 5-field format).
// Sub-second "@every" intervals are rounded up to one second by cron.
func (s *Scheduler) AddJob(spec string, job JobFunc, opts JobOptions) (cron.EntryID, error) {
	var running sync.Mutex
	name := opts.Name
	if name == "" {
		name = spec
	}
	return s.cron.AddFunc(spec, func() {
		s.runJob(name, &running, opts, job)
	})
}

// AddTickerJob registers a job that fires every interval, starting
// immediately. The job stops when the scheduler stops.
func (s *Scheduler) AddTickerJob(interval time.Duration, job JobFunc, opts JobOptions) TickerJobID {
	var running sync.Mutex
	name := opts.Name
	if name == "" {
		name = interval.String()
	}

	s.mu.Lock()
	id := s.nextTickerID
	s.nextTickerID++
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runJob(name, &running, opts, job)
			}
		}
	}()
	return id
}

// runJob executes one tick of a job, honouring its options.
func (s *Scheduler) runJob(name string, running *sync.Mutex, opts JobOptions, job JobFunc) {
	if opts.SkipIfRunning {
		if !running.TryLock() {
			s.log.Debug("job still running, skipping tick", slog.String("job", name))
			return
		}
		defer running.Unlock()
	}

	ctx := s.ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	s.wg.Add(1)
	defer s.wg.Done()

	start := time.Now()
	err := job(ctx)
	dur := time.Since(start)
	if err != nil {
		s.log.Error("job failed",
			slog.String("job", name),
			slog.Duration("dur", dur),
			slog.Any("error", err))
		return
	}
	s.log.Debug("job finished",
		slog.String("job", name),
		slog.Duration("dur", dur))
}

// Start begins dispatching cron ticks. Safe to call once.
func (s *Scheduler) Start() {
	s.startOnce.Do(s.cron.Start)
}

// Stop halts tick dispatch, stops ticker jobs and waits for running jobs to
// finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
		s.cancel()
		s.wg.Wait()
	})
}

// cronLogger adapts the cron logging interface to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kvToAttrs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]any{slog.Any("error", err)}, kvToAttrs(keysAndValues)...)
	l.log.Error(msg, args...)
}

func kvToAttrs(keysAndValues []interface{}) []any {
	attrs := make([]any, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, keysAndValues[i+1]))
	}
	return attrs
}
