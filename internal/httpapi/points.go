package httpapi

import (
	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/points"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleMyPoints(c *fiber.Ctx) error {
	rec, err := s.Points.Current(c.UserContext(), callerID(c), callerName(c))
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (s *Server) handleAllPoints(c *fiber.Ctx) error {
	recs, err := s.Points.Standings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(recs)
}

type awardRequest struct {
	PointType string `json:"pointType" validate:"required,oneof=daily_update ksheet test"`
	TestMarks *int   `json:"testMarks"`
}

// handleAward — ручное начисление (отладка/админ-коррекция).
func (s *Server) handleAward(c *fiber.Ctx) error {
	var req awardRequest
	if err := s.body(c, &req); err != nil {
		return err
	}

	var award *points.Award
	var err error
	switch req.PointType {
	case "daily_update":
		award, err = s.Points.AwardDailyUpdate(c.UserContext(), callerID(c), callerName(c))
	case "ksheet":
		award, err = s.Points.AwardKSheet(c.UserContext(), callerID(c), callerName(c))
	case "test":
		if req.TestMarks == nil {
			return apperr.Validation("testMarks обязателен для pointType=test")
		}
		award, err = s.Points.AwardTestScore(c.UserContext(), callerID(c), callerName(c), *req.TestMarks)
	}
	if err != nil {
		return err
	}
	return c.JSON(award)
}
