package jobs

import (
	"testing"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/config"
)

func TestTriggerPassed(t *testing.T) {
	trigger := config.DayTime{Hour: 9, Minute: 45}
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	before := day.Add(9*time.Hour + 44*time.Minute)
	exact := day.Add(9*time.Hour + 45*time.Minute)
	after := day.Add(23 * time.Hour)

	if TriggerPassed(before, trigger) {
		t.Fatal("09:44 — триггер ещё не наступил")
	}
	if !TriggerPassed(exact, trigger) {
		t.Fatal("09:45 — триггер наступил")
	}
	if !TriggerPassed(after, trigger) {
		t.Fatal("23:00 — триггер давно прошёл")
	}
}

func TestSweepState_OncePerDay(t *testing.T) {
	s := &sweepState{}
	if !s.markIfNew("2025-09-01") {
		t.Fatal("первый проход дня должен пройти")
	}
	if s.markIfNew("2025-09-01") {
		t.Fatal("второй проход того же дня должен быть пропущен")
	}
	if !s.markIfNew("2025-09-02") {
		t.Fatal("новый день — новый проход")
	}
	// неудачный sweep снимает отметку и даёт повторить
	s.unmark("2025-09-02")
	if !s.markIfNew("2025-09-02") {
		t.Fatal("после unmark проход должен повториться")
	}
}
