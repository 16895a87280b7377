package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

func InsertAnnouncement(ctx context.Context, database *sql.DB, a models.Announcement) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO announcements (id, title, body, audience, created_by)
VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Title, a.Body, a.Audience, a.CreatedBy,
	)
	if err != nil {
		return apperr.Storage("создание объявления", err)
	}
	return nil
}

// ListAnnouncements — объявления, видимые роли role (audience all + своя).
func ListAnnouncements(ctx context.Context, database *sql.DB, role models.Role, limit int) ([]models.Announcement, error) {
	audience := "teachers"
	if role.CanManage() {
		audience = "admins"
	}
	rows, err := database.QueryContext(ctx, `
SELECT id, title, body, audience, created_by, created_at
FROM announcements
WHERE audience IN ('all', $1)
ORDER BY created_at DESC
LIMIT $2`, audience, limit)
	if err != nil {
		return nil, apperr.Storage("список объявлений", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, apperr.Storage("скан объявления", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func DeleteAnnouncement(ctx context.Context, database *sql.DB, id uuid.UUID) error {
	res, err := database.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("удаление объявления", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("объявление %s не найдено", id)
	}
	return nil
}
