package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

// defaultEntry — день без записи: выходной для сб/вс, иначе absent.
func defaultEntry(date time.Time) models.DayEntry {
	status := models.AttendanceAbsent
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		status = models.AttendanceWeekend
	}
	return models.DayEntry{Date: date, Status: status}
}

func entryFromRecord(rec *models.AttendanceRecord) models.DayEntry {
	return models.DayEntry{
		Date:         rec.Date,
		Status:       rec.Status,
		PunchIn:      rec.PunchIn,
		PunchOut:     rec.PunchOut,
		WorkingHours: rec.WorkingHours,
	}
}

// BuildMonthlyCalendar — календарь месяца: каждый день предзаполнен
// default-значением, поверх накладываются реальные записи. Запись
// накладывается и на выходной — если преподаватель работал в субботу,
// календарь это показывает.
func BuildMonthlyCalendar(year int, month time.Month, recs []models.AttendanceRecord) []models.DayEntry {
	byDay := make(map[int]*models.AttendanceRecord, len(recs))
	for i := range recs {
		rec := &recs[i]
		if rec.Date.Year() == year && rec.Date.Month() == month {
			byDay[rec.Date.Day()] = rec
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	out := make([]models.DayEntry, 0, days)
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		if rec, ok := byDay[d]; ok {
			out = append(out, entryFromRecord(rec))
		} else {
			out = append(out, defaultEntry(date))
		}
	}
	return out
}

// MonthlyCalendar — календарь посещаемости преподавателя за месяц.
func (r *Reconciler) MonthlyCalendar(ctx context.Context, teacherID uuid.UUID, year int, month time.Month) ([]models.DayEntry, error) {
	if teacherID == uuid.Nil {
		return nil, apperr.Validation("teacherId обязателен")
	}
	if year < 2000 || year > 2100 || month < time.January || month > time.December {
		return nil, apperr.Validation("плохие год/месяц")
	}
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	recs, err := db.ListForMonth(dbCtx, r.DB, teacherID, year, month)
	if err != nil {
		return nil, err
	}
	return BuildMonthlyCalendar(year, month, recs), nil
}

// DailySnapshot — один день: реальная запись либо default.
func (r *Reconciler) DailySnapshot(ctx context.Context, teacherID uuid.UUID, date time.Time) (*models.DayEntry, error) {
	if teacherID == uuid.Nil {
		return nil, apperr.Validation("teacherId обязателен")
	}
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rec, err := db.GetAttendance(dbCtx, r.DB, teacherID, Day(date))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			e := defaultEntry(Day(date))
			return &e, nil
		}
		return nil, err
	}
	e := entryFromRecord(rec)
	return &e, nil
}

// AllForDate — по записи на каждого активного преподавателя за дату;
// у кого записи нет — синтезированный default.
func (r *Reconciler) AllForDate(ctx context.Context, date time.Time) ([]models.TeacherDayEntry, error) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	teachers, err := db.ListTeachers(dbCtx, r.DB, true)
	if err != nil {
		return nil, err
	}
	recs, err := db.ListAllForDate(dbCtx, r.DB, Day(date))
	if err != nil {
		return nil, err
	}
	byTeacher := make(map[uuid.UUID]*models.AttendanceRecord, len(recs))
	for i := range recs {
		byTeacher[recs[i].TeacherID] = &recs[i]
	}

	out := make([]models.TeacherDayEntry, 0, len(teachers))
	for _, t := range teachers {
		entry := defaultEntry(Day(date))
		if rec, ok := byTeacher[t.ID]; ok {
			entry = entryFromRecord(rec)
		}
		out = append(out, models.TeacherDayEntry{TeacherID: t.ID, TeacherName: t.Name, DayEntry: entry})
	}
	return out, nil
}

// MonthlySummary — агрегат текущего месяца по всем преподавателям:
// счётчики present/absent/leave и средние часы по present-дням.
func (r *Reconciler) MonthlySummary(ctx context.Context) ([]models.AttendanceSummary, error) {
	now := r.Now()
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	teachers, err := db.ListTeachers(dbCtx, r.DB, true)
	if err != nil {
		return nil, err
	}
	recs, err := db.ListAllForMonth(dbCtx, r.DB, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	return SummarizeAll(teachers, recs), nil
}

// SummarizeAll группирует записи по преподавателям; у кого записей нет —
// нулевой агрегат, но строка в сводке присутствует.
func SummarizeAll(teachers []models.Teacher, recs []models.AttendanceRecord) []models.AttendanceSummary {
	byTeacher := make(map[uuid.UUID][]models.AttendanceRecord)
	for _, rec := range recs {
		byTeacher[rec.TeacherID] = append(byTeacher[rec.TeacherID], rec)
	}

	out := make([]models.AttendanceSummary, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, Summarize(t.ID, t.Name, byTeacher[t.ID]))
	}
	return out
}

// Summarize — агрегат по одному преподавателю. Средние часы считаются
// только по present-дням, один знак после точки, "0.0" если таких нет.
func Summarize(teacherID uuid.UUID, name string, recs []models.AttendanceRecord) models.AttendanceSummary {
	s := models.AttendanceSummary{TeacherID: teacherID, TeacherName: name}
	var hours float64
	for i := range recs {
		rec := &recs[i]
		switch {
		case rec.CountsAsPresent():
			s.PresentDays++
			hours += rec.WorkingHours
		case rec.Status == models.AttendanceLeave:
			s.LeaveDays++
		case rec.Status == models.AttendanceAbsent:
			s.AbsentDays++
		}
	}
	if s.PresentDays > 0 {
		s.AvgWorkingHours = fmt.Sprintf("%.1f", hours/float64(s.PresentDays))
	} else {
		s.AvgWorkingHours = "0.0"
	}
	return s
}
