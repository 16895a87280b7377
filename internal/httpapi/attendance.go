package httpapi

import (
	"strconv"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/attendance"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type punchRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

func (s *Server) handlePunchIn(c *fiber.Ctx) error {
	var req punchRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	rec, err := s.Att.PunchIn(c.UserContext(), callerID(c), req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (s *Server) handlePunchOut(c *fiber.Ctx) error {
	var req punchRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	rec, err := s.Att.PunchOut(c.UserContext(), callerID(c), req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (s *Server) handleMonthlyCalendar(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return apperr.Validation("плохой teacherId")
	}
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return apperr.Validation("плохой год")
	}
	monthNum, err := strconv.Atoi(c.Params("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return apperr.Validation("плохой месяц")
	}

	entries, err := s.Att.MonthlyCalendar(c.UserContext(), teacherID, year, time.Month(monthNum))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (s *Server) handleDailySnapshot(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return apperr.Validation("плохой teacherId")
	}
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return apperr.Validation("дата должна быть YYYY-MM-DD")
	}

	entry, err := s.Att.DailySnapshot(c.UserContext(), teacherID, date)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (s *Server) handleAllForDate(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return apperr.Validation("дата должна быть YYYY-MM-DD")
	}
	entries, err := s.Att.AllForDate(c.UserContext(), date)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (s *Server) handleTeacherSummary(c *fiber.Ctx) error {
	summary, err := s.Att.MonthlySummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

type importLegacyRequest struct {
	Rows []attendance.LegacyRow `json:"rows" validate:"required,min=1,dive"`
}

func (s *Server) handleImportLegacy(c *fiber.Ctx) error {
	var req importLegacyRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	imported, skipped, err := s.Att.ImportLegacy(c.UserContext(), req.Rows)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"imported": imported, "skipped": skipped})
}
