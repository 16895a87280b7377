package httpapi

import (
	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type announcementRequest struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"omitempty,oneof=all teachers admins"`
}

func (s *Server) handleCreateAnnouncement(c *fiber.Ctx) error {
	var req announcementRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	if req.Audience == "" {
		req.Audience = "all"
	}
	a := models.Announcement{
		ID:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		Audience:  req.Audience,
		CreatedBy: callerID(c),
	}
	if err := db.InsertAnnouncement(c.UserContext(), s.DB, a); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (s *Server) handleListAnnouncements(c *fiber.Ctx) error {
	list, err := db.ListAnnouncements(c.UserContext(), s.DB, callerRole(c), 50)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleDeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("плохой id")
	}
	if err := db.DeleteAnnouncement(c.UserContext(), s.DB, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
