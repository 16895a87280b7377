package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

func InsertDailyUpdate(ctx context.Context, database *sql.DB, u models.DailyUpdate) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO daily_updates (id, teacher_id, student, subject, content, has_ksheet, test_marks)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.TeacherID, u.Student, u.Subject, u.Content, u.HasKSheet, u.TestMarks,
	)
	if err != nil {
		return apperr.Storage("создание отчёта", err)
	}
	return nil
}

func ListDailyUpdates(ctx context.Context, database *sql.DB, teacherID uuid.UUID, limit int) ([]models.DailyUpdate, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, teacher_id, student, subject, content, has_ksheet, test_marks, created_at
FROM daily_updates
WHERE teacher_id = $1
ORDER BY created_at DESC
LIMIT $2`, teacherID, limit)
	if err != nil {
		return nil, apperr.Storage("список отчётов", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.DailyUpdate
	for rows.Next() {
		var u models.DailyUpdate
		var marks sql.NullInt64
		if err := rows.Scan(&u.ID, &u.TeacherID, &u.Student, &u.Subject, &u.Content, &u.HasKSheet, &marks, &u.CreatedAt); err != nil {
			return nil, apperr.Storage("скан отчёта", err)
		}
		if marks.Valid {
			m := int(marks.Int64)
			u.TestMarks = &m
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
