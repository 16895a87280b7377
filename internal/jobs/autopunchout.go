package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/attendance"
	"github.com/Spok95/tutorcenter-backend/internal/config"
)

// sweepState защищает от двойного прохода за день при пересечении
// основного триггера и страховочного тикера. Сам sweep и так идемпотентен
// (закрывает только открытые записи) — это лишь экономия пустых прогонов.
type sweepState struct {
	mu      sync.Mutex
	lastDay string // "2006-01-02"
}

func (s *sweepState) markIfNew(day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDay == day {
		return false
	}
	s.lastDay = day
	return true
}

func (s *sweepState) unmark(day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDay == day {
		s.lastDay = ""
	}
}

// StartAutoPunchOut вешает на раннер два расписания:
// основное — ежедневно в cfg.AutoPunchOutTrigger; страховочное — каждую
// минуту проверяем, не проскочили ли триггер (рестарт процесса, сон машины).
func StartAutoPunchOut(r *Runner, rec *attendance.Reconciler, cfg *config.Config) {
	state := &sweepState{}

	run := func(ctx context.Context) error {
		day := time.Now().In(cfg.Location).Format("2006-01-02")
		if !state.markIfNew(day) {
			return nil
		}
		if _, err := rec.RunAutoPunchOut(ctx); err != nil {
			// БД не ответила — снимаем отметку, страховочный тикер повторит
			state.unmark(day)
			return err
		}
		return nil
	}

	r.DailyAt(cfg.Location, cfg.AutoPunchOutTrigger.Hour, cfg.AutoPunchOutTrigger.Minute,
		"auto_punch_out", run)

	r.Every(time.Minute, "auto_punch_out_safety", func(ctx context.Context) error {
		now := time.Now().In(cfg.Location)
		if !TriggerPassed(now, cfg.AutoPunchOutTrigger) {
			return nil
		}
		return run(ctx)
	})
}

// TriggerPassed — наступило ли сегодня время триггера.
func TriggerPassed(now time.Time, trigger config.DayTime) bool {
	return !now.Before(trigger.At(now))
}
