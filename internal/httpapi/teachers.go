package httpapi

import (
	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type teacherRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Pin      string   `json:"pin" validate:"omitempty,min=4,max=12,numeric"`
	Role     string   `json:"role" validate:"omitempty,oneof=teacher admin superadmin"`
	Subjects []string `json:"subjects"`
	ColorTag string   `json:"colorTag"`
}

func (s *Server) handleCreateTeacher(c *fiber.Ctx) error {
	var req teacherRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	if req.Pin == "" {
		return apperr.Validation("pin обязателен при онбординге")
	}
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleTeacher
	}
	// superadmin выдаёт только superadmin
	if role == models.RoleSuperAdmin && callerRole(c) != models.RoleSuperAdmin {
		return fiber.NewError(fiber.StatusForbidden, "только superadmin может выдать superadmin")
	}

	t := models.Teacher{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		Subjects: req.Subjects,
		ColorTag: req.ColorTag,
	}
	if err := db.CreateTeacher(c.UserContext(), s.DB, t, req.Pin); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *Server) handleListTeachers(c *fiber.Ctx) error {
	activeOnly := c.Query("all") == ""
	teachers, err := db.ListTeachers(c.UserContext(), s.DB, activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(teachers)
}

func (s *Server) handleGetTeacher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("плохой id")
	}
	t, err := db.GetTeacherByID(c.UserContext(), s.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) handleUpdateTeacher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("плохой id")
	}
	var req teacherRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	existing, err := db.GetTeacherByID(c.UserContext(), s.DB, id)
	if err != nil {
		return err
	}
	role := existing.Role
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	if role == models.RoleSuperAdmin && callerRole(c) != models.RoleSuperAdmin {
		return fiber.NewError(fiber.StatusForbidden, "только superadmin может выдать superadmin")
	}

	t := models.Teacher{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		Subjects: req.Subjects,
		ColorTag: req.ColorTag,
	}
	if err := db.UpdateTeacher(c.UserContext(), s.DB, t); err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) handleDeactivateTeacher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("плохой id")
	}
	if err := db.SetTeacherActive(c.UserContext(), s.DB, id, false); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
