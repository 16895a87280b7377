package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

const attendanceCols = `id, teacher_id, att_date, status,
punch_in_time, punch_in_lat, punch_in_lon, punch_in_addr,
punch_out_time, punch_out_lat, punch_out_lon, punch_out_addr, working_hours`

func scanAttendance(row interface{ Scan(...any) error }) (*models.AttendanceRecord, error) {
	var r models.AttendanceRecord
	var inT, outT sql.NullTime
	var inLat, inLon, outLat, outLon sql.NullFloat64
	var inAddr, outAddr sql.NullString

	err := row.Scan(&r.ID, &r.TeacherID, &r.Date, &r.Status,
		&inT, &inLat, &inLon, &inAddr,
		&outT, &outLat, &outLon, &outAddr, &r.WorkingHours)
	if err != nil {
		return nil, err
	}
	if inT.Valid {
		r.PunchIn = &models.Punch{
			Time:     inT.Time,
			Location: models.Location{Latitude: inLat.Float64, Longitude: inLon.Float64, Address: inAddr.String},
		}
	}
	if outT.Valid {
		r.PunchOut = &models.Punch{
			Time:     outT.Time,
			Location: models.Location{Latitude: outLat.Float64, Longitude: outLon.Float64, Address: outAddr.String},
		}
	}
	return &r, nil
}

// InsertPunchIn — открытие дня. Гонка двух punch-in за один день разрешается
// уникальным индексом (teacher_id, att_date): победитель один, остальным — конфликт.
func InsertPunchIn(ctx context.Context, database *sql.DB, teacherID uuid.UUID, date time.Time, p models.Punch) (*models.AttendanceRecord, error) {
	row := database.QueryRowContext(ctx, `
INSERT INTO attendance (teacher_id, att_date, status, punch_in_time, punch_in_lat, punch_in_lon, punch_in_addr)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT ON CONSTRAINT attendance_teacher_day DO NOTHING
RETURNING `+attendanceCols,
		teacherID, date, models.AttendanceInProgress,
		p.Time, p.Location.Latitude, p.Location.Longitude, p.Location.Address,
	)
	rec, err := scanAttendance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Conflict("уже есть отметка за %s", date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, apperr.Storage("punch-in", err)
	}
	return rec, nil
}

func GetAttendance(ctx context.Context, database *sql.DB, teacherID uuid.UUID, date time.Time) (*models.AttendanceRecord, error) {
	row := database.QueryRowContext(ctx,
		`SELECT `+attendanceCols+` FROM attendance WHERE teacher_id = $1 AND att_date = $2`,
		teacherID, date)
	rec, err := scanAttendance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("нет отметки за %s", date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, apperr.Storage("чтение посещаемости", err)
	}
	return rec, nil
}

// ClosePunchOut — закрытие дня одним атомарным UPDATE: срабатывает только если
// выход ещё не записан, поэтому повторный punch-out и гонка со sweep безопасны.
// status — completed для ручного выхода, auto-punched-out для sweep.
func ClosePunchOut(ctx context.Context, database *sql.DB, recordID int64, p models.Punch, status string, workingHours float64) (*models.AttendanceRecord, error) {
	row := database.QueryRowContext(ctx, `
UPDATE attendance
SET punch_out_time = $2, punch_out_lat = $3, punch_out_lon = $4, punch_out_addr = $5,
    status = $6, working_hours = $7
WHERE id = $1 AND punch_out_time IS NULL
RETURNING `+attendanceCols,
		recordID, p.Time, p.Location.Latitude, p.Location.Longitude, p.Location.Address,
		status, workingHours,
	)
	rec, err := scanAttendance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Conflict("день уже закрыт")
	}
	if err != nil {
		return nil, apperr.Storage("punch-out", err)
	}
	return rec, nil
}

// ListOpenForDate — кандидаты для sweep: вход есть, выхода нет.
func ListOpenForDate(ctx context.Context, database *sql.DB, date time.Time) ([]models.AttendanceRecord, error) {
	rows, err := database.QueryContext(ctx, `
SELECT `+attendanceCols+` FROM attendance
WHERE att_date = $1 AND punch_in_time IS NOT NULL AND punch_out_time IS NULL
ORDER BY id`, date)
	if err != nil {
		return nil, apperr.Storage("кандидаты sweep", err)
	}
	return collectAttendance(rows)
}

func ListForMonth(ctx context.Context, database *sql.DB, teacherID uuid.UUID, year int, month time.Month) ([]models.AttendanceRecord, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	rows, err := database.QueryContext(ctx, `
SELECT `+attendanceCols+` FROM attendance
WHERE teacher_id = $1 AND att_date >= $2 AND att_date < $3
ORDER BY att_date`, teacherID, from, to)
	if err != nil {
		return nil, apperr.Storage("посещаемость за месяц", err)
	}
	return collectAttendance(rows)
}

func ListAllForDate(ctx context.Context, database *sql.DB, date time.Time) ([]models.AttendanceRecord, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT `+attendanceCols+` FROM attendance WHERE att_date = $1 ORDER BY teacher_id`, date)
	if err != nil {
		return nil, apperr.Storage("посещаемость за день", err)
	}
	return collectAttendance(rows)
}

func ListAllForMonth(ctx context.Context, database *sql.DB, year int, month time.Month) ([]models.AttendanceRecord, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	rows, err := database.QueryContext(ctx, `
SELECT `+attendanceCols+` FROM attendance
WHERE att_date >= $1 AND att_date < $2
ORDER BY teacher_id, att_date`, from, to)
	if err != nil {
		return nil, apperr.Storage("посещаемость всех за месяц", err)
	}
	return collectAttendance(rows)
}

// InsertLegacyAttendance — импорт исторической записи как есть (статус/часы заданы).
// Дубликаты по (teacher_id, att_date) молча пропускаются: импорт перезапускаемый.
func InsertLegacyAttendance(ctx context.Context, database *sql.DB, r models.AttendanceRecord) (bool, error) {
	var inT, outT any
	var inLat, inLon, outLat, outLon any
	var inAddr, outAddr any
	if r.PunchIn != nil {
		inT, inLat, inLon, inAddr = r.PunchIn.Time, r.PunchIn.Location.Latitude, r.PunchIn.Location.Longitude, r.PunchIn.Location.Address
	}
	if r.PunchOut != nil {
		outT, outLat, outLon, outAddr = r.PunchOut.Time, r.PunchOut.Location.Latitude, r.PunchOut.Location.Longitude, r.PunchOut.Location.Address
	}
	res, err := database.ExecContext(ctx, `
INSERT INTO attendance (teacher_id, att_date, status,
  punch_in_time, punch_in_lat, punch_in_lon, punch_in_addr,
  punch_out_time, punch_out_lat, punch_out_lon, punch_out_addr, working_hours)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT ON CONSTRAINT attendance_teacher_day DO NOTHING`,
		r.TeacherID, r.Date, r.Status,
		inT, inLat, inLon, inAddr,
		outT, outLat, outLon, outAddr, r.WorkingHours,
	)
	if err != nil {
		return false, apperr.Storage("импорт посещаемости", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func collectAttendance(rows *sql.Rows) ([]models.AttendanceRecord, error) {
	defer func() { _ = rows.Close() }()
	var out []models.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, apperr.Storage("скан посещаемости", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
