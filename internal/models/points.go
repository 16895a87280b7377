package models

import (
	"time"

	"github.com/google/uuid"
)

// TeacherPoints — помесячный накопитель баллов преподавателя.
// Ключ (teacher_id, month), month в формате "YYYY-MM".
// TotalPoints всегда производный: сумма трёх слагаемых, пересчитывается
// при каждом начислении, отдельно не выставляется.
type TeacherPoints struct {
	ID                int64     `db:"id"`
	TeacherID         uuid.UUID `db:"teacher_id"`
	TeacherName       string    `db:"teacher_name"`
	Month             string    `db:"month"`
	DailyUpdatePoints int       `db:"daily_update_points"`
	KSheetPoints      int       `db:"ksheet_points"`
	TestPoints        int       `db:"test_points"`
	TotalPoints       int       `db:"total_points"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// MonthKey — ключ месяца для накопителя.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
