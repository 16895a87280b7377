package attendance

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/config"
	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/geo"
	"github.com/Spok95/tutorcenter-backend/internal/metrics"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconciler — запись посещаемости: открытие/закрытие дня и sweep,
// принудительно закрывающий забытые дни после cutoff.
type Reconciler struct {
	DB     *sql.DB
	Geo    *geo.Resolver
	Log    *zap.SugaredLogger
	Loc    *time.Location
	Cutoff config.DayTime
	Now    func() time.Time
}

func NewReconciler(database *sql.DB, resolver *geo.Resolver, log *zap.SugaredLogger, cfg *config.Config) *Reconciler {
	return &Reconciler{
		DB:     database,
		Geo:    resolver,
		Log:    log,
		Loc:    cfg.Location,
		Cutoff: cfg.AutoPunchOutCutoff,
		Now:    func() time.Time { return time.Now().In(cfg.Location) },
	}
}

// Day — календарный день t как ключ хранения (полночь UTC: колонка DATE).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validCoords(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// PunchIn открывает день. Повторный punch-in за тот же день — конфликт,
// первая запись не трогается.
func (r *Reconciler) PunchIn(ctx context.Context, teacherID uuid.UUID, lat, lon float64) (*models.AttendanceRecord, error) {
	if teacherID == uuid.Nil {
		return nil, apperr.Validation("teacherId обязателен")
	}
	if !validCoords(lat, lon) {
		return nil, apperr.Validation("координаты вне диапазона")
	}

	now := r.Now()
	punch := models.Punch{
		Time: now,
		Location: models.Location{
			Latitude:  lat,
			Longitude: lon,
			Address:   r.Geo.Address(ctx, lat, lon),
		},
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rec, err := db.InsertPunchIn(dbCtx, r.DB, teacherID, Day(now), punch)
	if err != nil {
		return nil, err
	}
	metrics.PunchIns.Inc()
	r.mirror(ctx, rec)
	return rec, nil
}

// PunchOut закрывает день явно. Статус становится completed — осознанное
// отличие от исходной системы, где день навсегда оставался inprogress.
func (r *Reconciler) PunchOut(ctx context.Context, teacherID uuid.UUID, lat, lon float64) (*models.AttendanceRecord, error) {
	if teacherID == uuid.Nil {
		return nil, apperr.Validation("teacherId обязателен")
	}
	if !validCoords(lat, lon) {
		return nil, apperr.Validation("координаты вне диапазона")
	}

	now := r.Now()
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rec, err := db.GetAttendance(dbCtx, r.DB, teacherID, Day(now))
	if err != nil {
		return nil, err // NotFound → «не было punch-in»
	}
	if rec.PunchOut != nil {
		return nil, apperr.Conflict("выход уже отмечен")
	}

	punch := models.Punch{
		Time: now,
		Location: models.Location{
			Latitude:  lat,
			Longitude: lon,
			Address:   r.Geo.Address(ctx, lat, lon),
		},
	}
	closed, err := db.ClosePunchOut(dbCtx, r.DB, rec.ID, punch, models.AttendanceCompleted, workingHours(rec.PunchIn.Time, now))
	if err != nil {
		return nil, err
	}
	metrics.PunchOuts.Inc()
	r.mirror(ctx, closed)
	return closed, nil
}

// RunAutoPunchOut — sweep: закрывает все открытые дни текущей даты временем
// cutoff, локация копируется из входа. Сбой одной записи логируется и не
// прерывает остальные. Повторный запуск ничего не находит — идемпотентно.
func (r *Reconciler) RunAutoPunchOut(ctx context.Context) ([]models.AttendanceRecord, error) {
	now := r.Now()
	cutoff := r.Cutoff.At(now)

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	open, err := db.ListOpenForDate(dbCtx, r.DB, Day(now))
	if err != nil {
		return nil, err
	}

	var reconciled []models.AttendanceRecord
	for _, rec := range open {
		punch := models.Punch{Time: cutoff, Location: rec.PunchIn.Location}
		rowCtx, rowCancel := ctxutil.WithDBTimeout(ctx)
		closed, err := db.ClosePunchOut(rowCtx, r.DB, rec.ID, punch, models.AttendanceAutoPunchedOut, workingHours(rec.PunchIn.Time, cutoff))
		rowCancel()
		if err != nil {
			// гонка с ручным punch-out или сбой БД — пропускаем запись
			r.Log.Warnw("sweep: запись не закрыта", "record_id", rec.ID, "err", err)
			continue
		}
		metrics.SweepReconciled.Inc()
		reconciled = append(reconciled, *closed)
		r.mirror(ctx, closed)
	}
	if len(reconciled) > 0 {
		r.Log.Infow("sweep: закрыты открытые дни", "count", len(reconciled), "cutoff", r.Cutoff.String())
	}
	return reconciled, nil
}

// mirror кладёт запись в outbox; сбой очереди не валит основную операцию.
func (r *Reconciler) mirror(ctx context.Context, rec *models.AttendanceRecord) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	if err := db.EnqueueOutbox(dbCtx, r.DB, "attendance", rec); err != nil {
		r.Log.Warnw("outbox: attendance не поставлена в очередь", "record_id", rec.ID, "err", err)
	}
}

func workingHours(in, out time.Time) float64 {
	h := out.Sub(in).Hours()
	if h < 0 {
		return 0
	}
	return math.Round(h*100) / 100
}
