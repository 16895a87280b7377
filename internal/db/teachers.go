package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// HashPin — PIN храним как sha256-хекс; это не пароль от банка,
// преподавателю выдаёт его админ при онбординге.
func HashPin(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func CreateTeacher(ctx context.Context, database *sql.DB, t models.Teacher, pin string) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO teachers (id, name, email, pin_hash, role, subjects, color_tag, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)`,
		t.ID, t.Name, strings.ToLower(t.Email), HashPin(pin), string(t.Role),
		strings.Join(t.Subjects, ","), t.ColorTag,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("преподаватель с email %s уже существует", t.Email)
	}
	if err != nil {
		return apperr.Storage("создание преподавателя", err)
	}
	return nil
}

func scanTeacher(row interface{ Scan(...any) error }) (*models.Teacher, string, error) {
	var t models.Teacher
	var role, subjects, pinHash string
	err := row.Scan(&t.ID, &t.Name, &t.Email, &pinHash, &role, &subjects, &t.ColorTag, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	t.Role = models.Role(role)
	if subjects != "" {
		t.Subjects = strings.Split(subjects, ",")
	}
	return &t, pinHash, nil
}

const teacherCols = `id, name, email, pin_hash, role, subjects, color_tag, is_active, created_at`

func GetTeacherByID(ctx context.Context, database *sql.DB, id uuid.UUID) (*models.Teacher, error) {
	row := database.QueryRowContext(ctx, `SELECT `+teacherCols+` FROM teachers WHERE id = $1`, id)
	t, _, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("преподаватель %s не найден", id)
	}
	if err != nil {
		return nil, apperr.Storage("чтение преподавателя", err)
	}
	return t, nil
}

// GetTeacherByEmail — для логина: вместе с хешем PIN.
func GetTeacherByEmail(ctx context.Context, database *sql.DB, email string) (*models.Teacher, string, error) {
	row := database.QueryRowContext(ctx,
		`SELECT `+teacherCols+` FROM teachers WHERE email = $1 AND is_active`, strings.ToLower(email))
	t, pinHash, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", apperr.NotFound("преподаватель %s не найден", email)
	}
	if err != nil {
		return nil, "", apperr.Storage("чтение преподавателя", err)
	}
	return t, pinHash, nil
}

func ListTeachers(ctx context.Context, database *sql.DB, activeOnly bool) ([]models.Teacher, error) {
	q := `SELECT ` + teacherCols + ` FROM teachers`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY name`
	rows, err := database.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.Storage("список преподавателей", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Teacher
	for rows.Next() {
		t, _, err := scanTeacher(rows)
		if err != nil {
			return nil, apperr.Storage("скан преподавателя", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func UpdateTeacher(ctx context.Context, database *sql.DB, t models.Teacher) error {
	res, err := database.ExecContext(ctx, `
UPDATE teachers SET name = $2, email = $3, role = $4, subjects = $5, color_tag = $6
WHERE id = $1`,
		t.ID, t.Name, strings.ToLower(t.Email), string(t.Role),
		strings.Join(t.Subjects, ","), t.ColorTag,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("email %s уже занят", t.Email)
	}
	if err != nil {
		return apperr.Storage("обновление преподавателя", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("преподаватель %s не найден", t.ID)
	}
	return nil
}

func SetTeacherActive(ctx context.Context, database *sql.DB, id uuid.UUID, active bool) error {
	res, err := database.ExecContext(ctx, `UPDATE teachers SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return apperr.Storage("деактивация преподавателя", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("преподаватель %s не найден", id)
	}
	return nil
}
