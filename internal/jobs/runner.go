package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

// Every запускает fn каждые interval до отмены контекста.
// Паника внутри джобы не роняет процесс — уходит в Sentry.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.run(name, fn)
			}
		}
	}()
}

// DailyAt запускает fn раз в сутки в указанное локальное время.
func (r *Runner) DailyAt(loc *time.Location, hour, minute int, name string, fn Job) {
	go func() {
		for {
			now := time.Now().In(loc)
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
			if !now.Before(next) {
				next = next.Add(24 * time.Hour)
			}
			select {
			case <-r.ctx.Done():
				return
			case <-time.After(next.Sub(now)):
				r.run(name, fn)
			}
		}
	}()
}

func (r *Runner) run(name string, fn Job) {
	start := time.Now()
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				jobErrors.WithLabelValues(name).Inc()
				observability.CaptureErr(fmt.Errorf("panic in job %s: %v", name, rec))
			}
		}()
		if err := fn(r.ctx); err != nil {
			jobErrors.WithLabelValues(name).Inc()
			observability.CaptureErr(err)
		}
	}()
	jobRuns.WithLabelValues(name).Inc()
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
