package httpapi

import (
	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type dailyUpdateRequest struct {
	Student   string `json:"student" validate:"required"`
	Subject   string `json:"subject"`
	Content   string `json:"content" validate:"required"`
	HasKSheet bool   `json:"hasKSheet"`
	TestMarks *int   `json:"testMarks"`
}

// handleCreateDailyUpdate — отчёт сохраняется и тут же начисляются баллы:
// фикс за отчёт, бонус за K-лист, за тест — по кривой. Начисления идут
// отдельными атомарными инкрементами; сбой начисления не отменяет отчёт,
// а возвращается клиенту как ошибка. Уже прошедшие инкременты при этом
// остаются — клиент повторяет не весь отчёт, а только начисление через
// /teacher-points/award.
func (s *Server) handleCreateDailyUpdate(c *fiber.Ctx) error {
	var req dailyUpdateRequest
	if err := s.body(c, &req); err != nil {
		return err
	}

	u := models.DailyUpdate{
		ID:        uuid.New(),
		TeacherID: callerID(c),
		Student:   req.Student,
		Subject:   req.Subject,
		Content:   req.Content,
		HasKSheet: req.HasKSheet,
		TestMarks: req.TestMarks,
	}
	ctx := c.UserContext()
	if err := db.InsertDailyUpdate(ctx, s.DB, u); err != nil {
		return err
	}

	award, err := s.Points.AwardDailyUpdate(ctx, u.TeacherID, callerName(c))
	if err != nil {
		return err
	}
	total := award.PointsAwarded
	if req.HasKSheet {
		if award, err = s.Points.AwardKSheet(ctx, u.TeacherID, callerName(c)); err != nil {
			return err
		}
		total += award.PointsAwarded
	}
	if req.TestMarks != nil {
		if award, err = s.Points.AwardTestScore(ctx, u.TeacherID, callerName(c), *req.TestMarks); err != nil {
			return err
		}
		total += award.PointsAwarded
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"update":        u,
		"pointsAwarded": total,
		"totalPoints":   award.Record.TotalPoints,
	})
}

func (s *Server) handleListDailyUpdates(c *fiber.Ctx) error {
	teacherID := callerID(c)
	// админ может смотреть чужие отчёты
	if q := c.Query("teacherId"); q != "" {
		if !callerRole(c).CanManage() {
			return fiber.NewError(fiber.StatusForbidden, "чужие отчёты — только для администраторов")
		}
		id, err := uuid.Parse(q)
		if err != nil {
			return apperr.Validation("плохой teacherId")
		}
		teacherID = id
	}
	updates, err := db.ListDailyUpdates(c.UserContext(), s.DB, teacherID, 100)
	if err != nil {
		return err
	}
	return c.JSON(updates)
}
