package points

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/metrics"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

// Баллы за активности. Фиксированные ставки плюс кривая за результат теста.
const (
	DailyUpdateAward = 30
	KSheetAward      = 100

	marksFloor = 20
	marksCap   = 140
	pointsCap  = 500
)

// ScoreToPoints — кусочная кривая перевода оценки в баллы.
// marks зажимается в [20, 140], нормируется в n ∈ [0, 1];
// нижняя ветка 100 + 300·(2n)^1.5, верхняя 400 + 400·(n−0.5)²,
// в точке n=0.5 обе дают ровно 400, при n=1 верхняя выходит на 500.
// Итог округляем и на всякий случай режем по 500.
// Функция монотонно неубывает по marks.
func ScoreToPoints(marks float64) int {
	if marks < marksFloor {
		marks = marksFloor
	}
	if marks > marksCap {
		marks = marksCap
	}
	n := (marks - marksFloor) / (marksCap - marksFloor)

	var pts float64
	if n <= 0.5 {
		pts = 100 + 300*math.Pow(2*n, 1.5)
	} else {
		pts = 400 + 400*math.Pow(n-0.5, 2)
	}
	v := int(math.Round(pts))
	if v > pointsCap {
		v = pointsCap
	}
	return v
}

// Award — результат одного начисления.
type Award struct {
	PointsAwarded int                   `json:"pointsAwarded"`
	Record        *models.TeacherPoints `json:"record"`
}

// Engine — начисление и чтение помесячных баллов. Вся атомарность — в БД
// (upsert с инкрементами), движок только классифицирует активность.
type Engine struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewEngine(database *sql.DB, loc *time.Location) *Engine {
	return &Engine{
		DB:  database,
		Now: func() time.Time { return time.Now().In(loc) },
	}
}

func (e *Engine) month() string { return models.MonthKey(e.Now()) }

func (e *Engine) validate(teacherID uuid.UUID, teacherName string) error {
	if teacherID == uuid.Nil {
		return apperr.Validation("teacherId обязателен")
	}
	if teacherName == "" {
		return apperr.Validation("teacherName обязателен")
	}
	return nil
}

// AwardDailyUpdate — фикс за ежедневный отчёт.
func (e *Engine) AwardDailyUpdate(ctx context.Context, teacherID uuid.UUID, teacherName string) (*Award, error) {
	if err := e.validate(teacherID, teacherName); err != nil {
		return nil, err
	}
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rec, err := db.AddPoints(dbCtx, e.DB, teacherID, teacherName, e.month(), DailyUpdateAward, 0, 0)
	if err != nil {
		return nil, err
	}
	metrics.PointsAwarded.WithLabelValues("daily_update").Add(DailyUpdateAward)
	return &Award{PointsAwarded: DailyUpdateAward, Record: rec}, nil
}

// AwardKSheet — бонус за K-лист.
func (e *Engine) AwardKSheet(ctx context.Context, teacherID uuid.UUID, teacherName string) (*Award, error) {
	if err := e.validate(teacherID, teacherName); err != nil {
		return nil, err
	}
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rec, err := db.AddPoints(dbCtx, e.DB, teacherID, teacherName, e.month(), 0, KSheetAward, 0)
	if err != nil {
		return nil, err
	}
	metrics.PointsAwarded.WithLabelValues("ksheet").Add(KSheetAward)
	return &Award{PointsAwarded: KSheetAward, Record: rec}, nil
}

// AwardTestScore — за результат теста, по кривой.
func (e *Engine) AwardTestScore(ctx context.Context, teacherID uuid.UUID, teacherName string, marks int) (*Award, error) {
	if err := e.validate(teacherID, teacherName); err != nil {
		return nil, err
	}
	pts := ScoreToPoints(float64(marks))
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rec, err := db.AddPoints(dbCtx, e.DB, teacherID, teacherName, e.month(), 0, 0, pts)
	if err != nil {
		return nil, err
	}
	metrics.PointsAwarded.WithLabelValues("test").Add(float64(pts))
	return &Award{PointsAwarded: pts, Record: rec}, nil
}

// Current — накопитель текущего месяца, создаётся при первом чтении.
func (e *Engine) Current(ctx context.Context, teacherID uuid.UUID, teacherName string) (*models.TeacherPoints, error) {
	if err := e.validate(teacherID, teacherName); err != nil {
		return nil, err
	}
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return db.GetOrCreatePoints(dbCtx, e.DB, teacherID, teacherName, e.month())
}

// Standings — все накопители текущего месяца, по убыванию итога.
func (e *Engine) Standings(ctx context.Context) ([]models.TeacherPoints, error) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return db.ListPointsForMonth(dbCtx, e.DB, e.month())
}
