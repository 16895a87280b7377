package attendance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

// ParseLegacyDate — терпимый разбор локале-форматированных дат из старой
// системы ("9/5/2023", "09-05-2023", "5.9.2023 ..."). Режем по любым
// разделителям, берём три числа; четырёхзначное — год, из остальных
// первое считаем месяцем, а если оно больше 12 — днём (day-first локаль).
// На мусоре возвращаем ошибку, не панику: битая строка — это пропущенная
// запись, а не упавший импорт.
func ParseLegacyDate(s string) (time.Time, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '/' || r == '-' || r == '.' || r == ',' || r == ' '
	})
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("дата %q: мало полей", s)
	}

	nums := make([]int, 0, 3)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			break // хвост типа времени или таймзоны игнорируем
		}
		nums = append(nums, n)
		if len(nums) == 3 {
			break
		}
	}
	if len(nums) != 3 {
		return time.Time{}, fmt.Errorf("дата %q: не три числа", s)
	}

	year, rest := -1, make([]int, 0, 2)
	for _, n := range nums {
		if n >= 1000 && year == -1 {
			year = n
		} else {
			rest = append(rest, n)
		}
	}
	if year == -1 || len(rest) != 2 {
		return time.Time{}, fmt.Errorf("дата %q: нет года", s)
	}

	month, day := rest[0], rest[1]
	if month > 12 && day <= 12 {
		month, day = day, month
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("дата %q: вне диапазона", s)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// отлавливаем 31 февраля и подобное: time.Date молча нормализует
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("дата %q: несуществующий день", s)
	}
	return d, nil
}

// LegacyRow — строка импорта из старой системы.
type LegacyRow struct {
	TeacherID    uuid.UUID `json:"teacherId"`
	Date         string    `json:"date"` // локале-форматированная строка
	Status       string    `json:"status"`
	WorkingHours float64   `json:"workingHours"`
}

// ImportLegacy — перенос исторических записей. Битые даты и дубликаты
// пропускаются с логом; ошибка БД останавливает импорт (он перезапускаемый).
func (r *Reconciler) ImportLegacy(ctx context.Context, rows []LegacyRow) (imported, skipped int, err error) {
	for _, row := range rows {
		date, perr := ParseLegacyDate(row.Date)
		if perr != nil {
			r.Log.Warnw("импорт: строка пропущена", "err", perr)
			skipped++
			continue
		}
		status := row.Status
		switch status {
		case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave,
			models.AttendanceCompleted, models.AttendanceAutoPunchedOut:
		default:
			status = models.AttendancePresent
		}

		dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
		ok, ierr := db.InsertLegacyAttendance(dbCtx, r.DB, models.AttendanceRecord{
			TeacherID:    row.TeacherID,
			Date:         date,
			Status:       status,
			WorkingHours: row.WorkingHours,
		})
		cancel()
		if ierr != nil {
			return imported, skipped, ierr
		}
		if ok {
			imported++
		} else {
			skipped++ // уже есть запись за этот день
		}
	}
	return imported, skipped, nil
}
