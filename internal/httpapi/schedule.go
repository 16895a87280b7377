package httpapi

import (
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type scheduleRequest struct {
	TeacherID string    `json:"teacherId"` // админ может создать занятие другому
	Subject   string    `json:"subject" validate:"required"`
	Batch     string    `json:"batch"`
	StartsAt  time.Time `json:"startsAt" validate:"required"`
	EndsAt    time.Time `json:"endsAt" validate:"required"`
}

func (s *Server) scheduleTarget(c *fiber.Ctx, req *scheduleRequest) (uuid.UUID, error) {
	if req.TeacherID == "" {
		return callerID(c), nil
	}
	id, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return uuid.Nil, apperr.Validation("плохой teacherId")
	}
	if id != callerID(c) && !callerRole(c).CanManage() {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "чужое расписание — только для администраторов")
	}
	return id, nil
}

func (s *Server) handleCreateEvent(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	if !req.EndsAt.After(req.StartsAt) {
		return apperr.Validation("endsAt должен быть позже startsAt")
	}
	teacherID, err := s.scheduleTarget(c, &req)
	if err != nil {
		return err
	}

	e := models.ScheduleEvent{
		ID:        uuid.New(),
		TeacherID: teacherID,
		Subject:   req.Subject,
		Batch:     req.Batch,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	}
	if err := db.InsertScheduleEvent(c.UserContext(), s.DB, e); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *Server) handleListEvents(c *fiber.Ctx) error {
	teacherID := callerID(c)
	if q := c.Query("teacherId"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return apperr.Validation("плохой teacherId")
		}
		teacherID = id
	}

	from := time.Now().AddDate(0, 0, -7)
	to := time.Now().AddDate(0, 1, 0)
	if q := c.Query("from"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			return apperr.Validation("from должен быть YYYY-MM-DD")
		}
		from = t
	}
	if q := c.Query("to"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			return apperr.Validation("to должен быть YYYY-MM-DD")
		}
		to = t
	}

	events, err := db.ListScheduleEvents(c.UserContext(), s.DB, teacherID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(events)
}

func (s *Server) handleUpdateEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("плохой id")
	}
	var req scheduleRequest
	if err := s.body(c, &req); err != nil {
		return err
	}
	if !req.EndsAt.After(req.StartsAt) {
		return apperr.Validation("endsAt должен быть позже startsAt")
	}

	e := models.ScheduleEvent{
		ID:       id,
		Subject:  req.Subject,
		Batch:    req.Batch,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := db.UpdateScheduleEvent(c.UserContext(), s.DB, e); err != nil {
		return err
	}
	return c.JSON(e)
}

func (s *Server) handleDeleteEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("плохой id")
	}
	if err := db.DeleteScheduleEvent(c.UserContext(), s.DB, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
