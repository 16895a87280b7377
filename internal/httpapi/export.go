package httpapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/attendance"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/export"
	"github.com/gofiber/fiber/v2"
)

// handleMonthlyReport — xlsx с посещаемостью и рейтингом за месяц.
// По умолчанию текущий месяц.
func (s *Server) handleMonthlyReport(c *fiber.Ctx) error {
	now := time.Now().In(s.Cfg.Location)
	year, monthNum := now.Year(), int(now.Month())
	if q := c.Query("year"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			return apperr.Validation("плохой год")
		}
		year = v
	}
	if q := c.Query("month"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > 12 {
			return apperr.Validation("плохой месяц")
		}
		monthNum = v
	}
	month := fmt.Sprintf("%04d-%02d", year, monthNum)

	ctx := c.UserContext()
	teachers, err := db.ListTeachers(ctx, s.DB, true)
	if err != nil {
		return err
	}
	recs, err := db.ListAllForMonth(ctx, s.DB, year, time.Month(monthNum))
	if err != nil {
		return err
	}
	summaries := attendance.SummarizeAll(teachers, recs)

	standings, err := db.ListPointsForMonth(ctx, s.DB, month)
	if err != nil {
		return err
	}

	wb, err := export.BuildMonthlyReport(month, summaries, standings)
	if err != nil {
		return apperr.Storage("сборка отчёта", err)
	}
	buf, err := wb.File.WriteToBuffer()
	if err != nil {
		return apperr.Storage("сериализация отчёта", err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="report_%s.xlsx"`, month))
	return c.Send(buf.Bytes())
}
