package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

func InsertScheduleEvent(ctx context.Context, database *sql.DB, e models.ScheduleEvent) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO schedule_events (id, teacher_id, subject, batch, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.TeacherID, e.Subject, e.Batch, e.StartsAt, e.EndsAt,
	)
	if err != nil {
		return apperr.Storage("создание занятия", err)
	}
	return nil
}

func ListScheduleEvents(ctx context.Context, database *sql.DB, teacherID uuid.UUID, from, to time.Time) ([]models.ScheduleEvent, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, teacher_id, subject, batch, starts_at, ends_at, created_at
FROM schedule_events
WHERE teacher_id = $1 AND starts_at >= $2 AND starts_at < $3
ORDER BY starts_at`, teacherID, from, to)
	if err != nil {
		return nil, apperr.Storage("расписание", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ScheduleEvent
	for rows.Next() {
		var e models.ScheduleEvent
		if err := rows.Scan(&e.ID, &e.TeacherID, &e.Subject, &e.Batch, &e.StartsAt, &e.EndsAt, &e.CreatedAt); err != nil {
			return nil, apperr.Storage("скан занятия", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func UpdateScheduleEvent(ctx context.Context, database *sql.DB, e models.ScheduleEvent) error {
	res, err := database.ExecContext(ctx, `
UPDATE schedule_events SET subject = $2, batch = $3, starts_at = $4, ends_at = $5
WHERE id = $1`,
		e.ID, e.Subject, e.Batch, e.StartsAt, e.EndsAt,
	)
	if err != nil {
		return apperr.Storage("обновление занятия", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("занятие %s не найдено", e.ID)
	}
	return nil
}

func DeleteScheduleEvent(ctx context.Context, database *sql.DB, id uuid.UUID) error {
	res, err := database.ExecContext(ctx, `DELETE FROM schedule_events WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("удаление занятия", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("занятие %s не найдено", id)
	}
	return nil
}
