package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyUpdate — ежедневный отчёт преподавателя. Отправка отчёта начисляет
// баллы: фикс за отчёт, бонус за K-лист, и за результат теста — по кривой.
type DailyUpdate struct {
	ID        uuid.UUID `db:"id"`
	TeacherID uuid.UUID `db:"teacher_id"`
	Student   string    `db:"student"`
	Subject   string    `db:"subject"`
	Content   string    `db:"content"`
	HasKSheet bool      `db:"has_ksheet"`
	TestMarks *int      `db:"test_marks"`
	CreatedAt time.Time `db:"created_at"`
}

type Announcement struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Audience  string    `db:"audience"` // all | teachers | admins
	CreatedBy uuid.UUID `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

// ScheduleEvent — занятие в календаре расписания.
type ScheduleEvent struct {
	ID        uuid.UUID `db:"id"`
	TeacherID uuid.UUID `db:"teacher_id"`
	Subject   string    `db:"subject"`
	Batch     string    `db:"batch"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	CreatedAt time.Time `db:"created_at"`
}
