package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

const pointsCols = `id, teacher_id, teacher_name, month, daily_update_points, ksheet_points, test_points, total_points, updated_at`

func scanPoints(row interface{ Scan(...any) error }) (*models.TeacherPoints, error) {
	var p models.TeacherPoints
	err := row.Scan(&p.ID, &p.TeacherID, &p.TeacherName, &p.Month,
		&p.DailyUpdatePoints, &p.KSheetPoints, &p.TestPoints, &p.TotalPoints, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddPoints — начисление одним атомарным upsert: при гонке двух начислений
// за один (teacher_id, month) оба инкремента попадут в итог, потерянных
// обновлений нет. total_points пересчитывается тем же оператором и никогда
// не выставляется отдельно.
func AddPoints(ctx context.Context, database *sql.DB, teacherID uuid.UUID, teacherName, month string, daily, ksheet, test int) (*models.TeacherPoints, error) {
	row := database.QueryRowContext(ctx, `
INSERT INTO teacher_points (teacher_id, teacher_name, month, daily_update_points, ksheet_points, test_points, total_points)
VALUES ($1, $2, $3, $4, $5, $6, $4 + $5 + $6)
ON CONFLICT ON CONSTRAINT teacher_points_month DO UPDATE SET
	teacher_name        = EXCLUDED.teacher_name,
	daily_update_points = teacher_points.daily_update_points + EXCLUDED.daily_update_points,
	ksheet_points       = teacher_points.ksheet_points + EXCLUDED.ksheet_points,
	test_points         = teacher_points.test_points + EXCLUDED.test_points,
	total_points        = teacher_points.daily_update_points + teacher_points.ksheet_points + teacher_points.test_points
	                    + EXCLUDED.daily_update_points + EXCLUDED.ksheet_points + EXCLUDED.test_points,
	updated_at          = NOW()
RETURNING `+pointsCols,
		teacherID, teacherName, month, daily, ksheet, test,
	)
	p, err := scanPoints(row)
	if isForeignKeyViolation(err) {
		return nil, apperr.NotFound("преподаватель %s не найден", teacherID)
	}
	if err != nil {
		return nil, apperr.Storage("начисление баллов", err)
	}
	return p, nil
}

// GetOrCreatePoints — чтение накопителя; при первом обращении за месяц
// запись создаётся с нулями (нулевой upsert).
func GetOrCreatePoints(ctx context.Context, database *sql.DB, teacherID uuid.UUID, teacherName, month string) (*models.TeacherPoints, error) {
	row := database.QueryRowContext(ctx,
		`SELECT `+pointsCols+` FROM teacher_points WHERE teacher_id = $1 AND month = $2`,
		teacherID, month)
	p, err := scanPoints(row)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, apperr.Storage("чтение баллов", err)
	}
	return AddPoints(ctx, database, teacherID, teacherName, month, 0, 0, 0)
}

func ListPointsForMonth(ctx context.Context, database *sql.DB, month string) ([]models.TeacherPoints, error) {
	rows, err := database.QueryContext(ctx, `
SELECT `+pointsCols+` FROM teacher_points
WHERE month = $1
ORDER BY total_points DESC, teacher_name`, month)
	if err != nil {
		return nil, apperr.Storage("баллы за месяц", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.TeacherPoints
	for rows.Next() {
		p, err := scanPoints(rows)
		if err != nil {
			return nil, apperr.Storage("скан баллов", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
