package export

import (
	"fmt"
	"strconv"

	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

type MonthlyWorkbook struct {
	File *excelize.File
}

// NewMonthlyWorkbook собирает книгу из листов SheetSpec: жирный заголовок,
// автофильтр в первой строке, эвристическая ширина колонок.
func NewMonthlyWorkbook(sheets []SheetSpec) (*MonthlyWorkbook, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}
		// заголовки
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		// стиль заголовков + автофильтр
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		// строки
		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		// эвристическая ширина: по длине заголовка и первых строк
		for c := 1; c <= len(s.Header); c++ {
			maxim := len(s.Header[c-1])
			for r := 0; r < minim(50, len(s.Rows)); r++ {
				if l := len(s.Rows[r][c-1]); l > maxim {
					maxim = l
				}
			}
			w := float64(maxim) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return &MonthlyWorkbook{File: f}, nil
}

// BuildMonthlyReport — отчётная книга за месяц: лист посещаемости
// и лист рейтинга по баллам.
func BuildMonthlyReport(month string, summaries []models.AttendanceSummary, standings []models.TeacherPoints) (*MonthlyWorkbook, error) {
	att := SheetSpec{
		Title:  "Посещаемость",
		Header: []string{"Преподаватель", "Рабочих дней", "Пропусков", "Отпуск", "Средние часы"},
	}
	for _, s := range summaries {
		att.Rows = append(att.Rows, []string{
			s.TeacherName,
			strconv.Itoa(s.PresentDays),
			strconv.Itoa(s.AbsentDays),
			strconv.Itoa(s.LeaveDays),
			s.AvgWorkingHours,
		})
	}

	pts := SheetSpec{
		Title:  "Баллы " + month,
		Header: []string{"Преподаватель", "Отчёты", "K-листы", "Тесты", "Итого"},
	}
	for _, p := range standings {
		pts.Rows = append(pts.Rows, []string{
			p.TeacherName,
			strconv.Itoa(p.DailyUpdatePoints),
			strconv.Itoa(p.KSheetPoints),
			strconv.Itoa(p.TestPoints),
			strconv.Itoa(p.TotalPoints),
		})
	}

	return NewMonthlyWorkbook([]SheetSpec{att, pts})
}

// helpers
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
