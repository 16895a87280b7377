package httpapi

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/attendance"
	"github.com/Spok95/tutorcenter-backend/internal/config"
	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/logging"
	"github.com/Spok95/tutorcenter-backend/internal/metrics"
	"github.com/Spok95/tutorcenter-backend/internal/observability"
	"github.com/Spok95/tutorcenter-backend/internal/points"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Server — HTTP API поверх ядра. Хендлеры только парсят/валидируют вход
// и маппят ошибки; бизнес-логика в points и attendance.
type Server struct {
	DB       *sql.DB
	Log      *logging.Log
	Cfg      *config.Config
	Points   *points.Engine
	Att      *attendance.Reconciler
	validate *validator.Validate
}

func NewServer(database *sql.DB, log *logging.Log, cfg *config.Config, eng *points.Engine, rec *attendance.Reconciler) *Server {
	return &Server{
		DB:       database,
		Log:      log,
		Cfg:      cfg,
		Points:   eng,
		Att:      rec,
		validate: validator.New(),
	}
}

// App собирает fiber-приложение с маршрутами и обработчиком ошибок.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "tutorcenter",
		ErrorHandler: s.errorHandler,
	})

	app.Use(s.requestLog)

	api := app.Group("/api/v1")
	api.Post("/auth/login", s.handleLogin)

	authed := api.Group("", s.requireAuth)

	authed.Post("/attendance/punch-in", s.handlePunchIn)
	authed.Post("/attendance/punch-out", s.handlePunchOut)
	authed.Get("/attendance/teacher/:teacherId/monthly/:year/:month", s.handleMonthlyCalendar)
	authed.Get("/attendance/teacher/:teacherId/daily/:date", s.handleDailySnapshot)
	authed.Get("/attendance/teacher-summary", s.requireAdmin, s.handleTeacherSummary)
	authed.Get("/attendance/all/:date", s.requireAdmin, s.handleAllForDate)
	authed.Post("/attendance/import-legacy", s.requireAdmin, s.handleImportLegacy)

	authed.Get("/teacher-points", s.handleMyPoints)
	authed.Get("/teacher-points/all", s.requireAdmin, s.handleAllPoints)
	authed.Post("/teacher-points/award", s.handleAward)

	authed.Post("/teachers", s.requireAdmin, s.handleCreateTeacher)
	authed.Get("/teachers", s.handleListTeachers)
	authed.Get("/teachers/:id", s.handleGetTeacher)
	authed.Put("/teachers/:id", s.requireAdmin, s.handleUpdateTeacher)
	authed.Delete("/teachers/:id", s.requireAdmin, s.handleDeactivateTeacher)

	authed.Post("/daily-updates", s.handleCreateDailyUpdate)
	authed.Get("/daily-updates", s.handleListDailyUpdates)

	authed.Post("/announcements", s.requireAdmin, s.handleCreateAnnouncement)
	authed.Get("/announcements", s.handleListAnnouncements)
	authed.Delete("/announcements/:id", s.requireAdmin, s.handleDeleteAnnouncement)

	authed.Post("/schedule", s.handleCreateEvent)
	authed.Get("/schedule", s.handleListEvents)
	authed.Put("/schedule/:id", s.handleUpdateEvent)
	authed.Delete("/schedule/:id", s.handleDeleteEvent)

	authed.Get("/reports/monthly.xlsx", s.requireAdmin, s.handleMonthlyReport)

	return app
}

// errorHandler — единая точка маппинга ошибок в статусы.
// Наружу всегда уходит {"error": "..."} без стектрейсов.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := fiber.StatusInternalServerError
		switch ae.Kind {
		case apperr.KindValidation:
			status = fiber.StatusBadRequest
		case apperr.KindConflict:
			status = fiber.StatusConflict
		case apperr.KindNotFound:
			status = fiber.StatusNotFound
		case apperr.KindStorage:
			status = fiber.StatusInternalServerError
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			s.Log.Sugar.Errorw("storage error", "path", c.Path(), "teacher_id", logTeacherID(c), "err", err)
			// не светим детали БД клиенту
			return c.Status(status).JSON(fiber.Map{"error": "внутренняя ошибка хранилища"})
		}
		return c.Status(status).JSON(fiber.Map{"error": ae.Msg})
	}

	metrics.HandlerErrors.Inc()
	observability.CaptureErr(err)
	s.Log.Sugar.Errorw("unhandled error", "path", c.Path(), "teacher_id", logTeacherID(c), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "внутренняя ошибка"})
}

// logTeacherID — кто делал запрос, если аутентифицирован; иначе "-".
func logTeacherID(c *fiber.Ctx) string {
	if id, ok := ctxutil.TeacherID(c.UserContext()); ok {
		return id.String()
	}
	return "-"
}

func (s *Server) requestLog(c *fiber.Ctx) error {
	err := c.Next()
	metrics.HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(c.Response().StatusCode())).Inc()
	return err
}

// body парсит и валидирует JSON-тело в dst.
func (s *Server) body(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("плохое тело запроса")
	}
	if err := s.validate.Struct(dst); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return nil
}
