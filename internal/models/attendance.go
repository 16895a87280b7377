package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы дня посещаемости. Переходы односторонние:
// none → inprogress (punch-in) → completed (punch-out) | auto-punched-out (sweep).
const (
	AttendanceInProgress     = "inprogress"
	AttendancePresent        = "present"
	AttendanceAbsent         = "absent"
	AttendanceLeave          = "leave"
	AttendanceCompleted      = "completed"
	AttendanceAutoPunchedOut = "auto-punched-out"
	AttendanceWeekend        = "weekend"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Punch struct {
	Time     time.Time `json:"time"`
	Location Location  `json:"location"`
}

type AttendanceRecord struct {
	ID        int64     `db:"id"`
	TeacherID uuid.UUID `db:"teacher_id"`
	Date      time.Time `db:"att_date"` // день, без времени
	Status    string    `db:"status"`
	PunchIn   *Punch
	PunchOut  *Punch
	// Рабочие часы считаются при закрытии дня (punch-out или sweep).
	WorkingHours float64 `db:"working_hours"`
}

// Open — день открыт: вход есть, выхода нет.
func (r *AttendanceRecord) Open() bool {
	return r.PunchIn != nil && r.PunchOut == nil
}

// CountsAsPresent — день засчитывается как рабочий в сводках.
func (r *AttendanceRecord) CountsAsPresent() bool {
	switch r.Status {
	case AttendanceInProgress, AttendancePresent, AttendanceCompleted, AttendanceAutoPunchedOut:
		return true
	}
	return false
}

// DayEntry — элемент календаря для выдачи наружу: либо реальная запись,
// либо синтезированный default (weekend/absent).
type DayEntry struct {
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	PunchIn      *Punch    `json:"punchIn"`
	PunchOut     *Punch    `json:"punchOut"`
	WorkingHours float64   `json:"workingHours"`
}

// TeacherDayEntry — то же, но с привязкой к преподавателю (выдача "все за день").
type TeacherDayEntry struct {
	TeacherID   uuid.UUID `json:"teacherId"`
	TeacherName string    `json:"teacherName"`
	DayEntry
}

// AttendanceSummary — агрегат за месяц по одному преподавателю.
type AttendanceSummary struct {
	TeacherID       uuid.UUID `json:"teacherId"`
	TeacherName     string    `json:"teacherName"`
	PresentDays     int       `json:"presentDays"`
	AbsentDays      int       `json:"absentDays"`
	LeaveDays       int       `json:"leaveDays"`
	AvgWorkingHours string    `json:"avgWorkingHours"` // "7.5", один знак после точки
}
