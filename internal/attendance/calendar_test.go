package attendance

import (
	"testing"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

func TestBuildMonthlyCalendar_Defaults(t *testing.T) {
	// сентябрь 2025: 30 дней, 1-е — понедельник
	entries := BuildMonthlyCalendar(2025, time.September, nil)
	if len(entries) != 30 {
		t.Fatalf("ожидали 30 дней, получили %d", len(entries))
	}
	for _, e := range entries {
		wd := e.Date.Weekday()
		want := models.AttendanceAbsent
		if wd == time.Saturday || wd == time.Sunday {
			want = models.AttendanceWeekend
		}
		if e.Status != want {
			t.Fatalf("%s (%s): ожидали %s, получили %s", e.Date.Format("2006-01-02"), wd, want, e.Status)
		}
		if e.WorkingHours != 0 || e.PunchIn != nil || e.PunchOut != nil {
			t.Fatalf("default-день %s должен быть пустым", e.Date.Format("2006-01-02"))
		}
	}
}

func TestBuildMonthlyCalendar_FebruaryLengths(t *testing.T) {
	if n := len(BuildMonthlyCalendar(2024, time.February, nil)); n != 29 {
		t.Fatalf("февраль 2024: ожидали 29 дней, получили %d", n)
	}
	if n := len(BuildMonthlyCalendar(2025, time.February, nil)); n != 28 {
		t.Fatalf("февраль 2025: ожидали 28 дней, получили %d", n)
	}
}

func TestBuildMonthlyCalendar_Overlay(t *testing.T) {
	tid := uuid.New()
	in := &models.Punch{Time: time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)}
	recs := []models.AttendanceRecord{
		{
			TeacherID:    tid,
			Date:         time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
			Status:       models.AttendanceCompleted,
			PunchIn:      in,
			WorkingHours: 7.5,
		},
		// запись на субботу: реальная работа перекрывает выходной
		{
			TeacherID: tid,
			Date:      time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC),
			Status:    models.AttendancePresent,
		},
		// чужой месяц не должен попасть в календарь
		{
			TeacherID: tid,
			Date:      time.Date(2025, 8, 13, 0, 0, 0, 0, time.UTC),
			Status:    models.AttendancePresent,
		},
	}
	entries := BuildMonthlyCalendar(2025, time.September, recs)

	if e := entries[9]; e.Status != models.AttendanceCompleted || e.WorkingHours != 7.5 || e.PunchIn == nil {
		t.Fatalf("10 сентября: запись не наложилась: %+v", e)
	}
	if e := entries[12]; e.Status != models.AttendancePresent {
		t.Fatalf("суббота 13-го: ожидали present поверх weekend, получили %s", e.Status)
	}
	if e := entries[11]; e.Status != models.AttendanceAbsent {
		t.Fatalf("12 сентября без записи: ожидали absent, получили %s", e.Status)
	}
}

func TestSummarize(t *testing.T) {
	tid := uuid.New()
	recs := []models.AttendanceRecord{
		{Status: models.AttendanceCompleted, WorkingHours: 8},
		{Status: models.AttendanceAutoPunchedOut, WorkingHours: 7},
		{Status: models.AttendanceLeave},
		{Status: models.AttendanceAbsent},
		{Status: models.AttendanceAbsent},
	}
	s := Summarize(tid, "Тест", recs)
	if s.PresentDays != 2 || s.LeaveDays != 1 || s.AbsentDays != 2 {
		t.Fatalf("счётчики: %+v", s)
	}
	if s.AvgWorkingHours != "7.5" {
		t.Fatalf("средние часы: ожидали 7.5, получили %s", s.AvgWorkingHours)
	}
}

func TestSummarize_NoPresentDays(t *testing.T) {
	s := Summarize(uuid.New(), "Тест", nil)
	if s.AvgWorkingHours != "0.0" {
		t.Fatalf("без present-дней ожидали 0.0, получили %s", s.AvgWorkingHours)
	}
}

func TestWorkingHours(t *testing.T) {
	in := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	if h := workingHours(in, in.Add(7*time.Hour+30*time.Minute)); h != 7.5 {
		t.Fatalf("ожидали 7.5, получили %v", h)
	}
	// выход раньше входа (кривые часы из импорта) не даёт отрицательных часов
	if h := workingHours(in, in.Add(-time.Hour)); h != 0 {
		t.Fatalf("ожидали 0, получили %v", h)
	}
}
