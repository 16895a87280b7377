package points_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/points"
	"github.com/Spok95/tutorcenter-backend/internal/testutil/testdb"
	"github.com/google/uuid"
)

func seedTeacher(t *testing.T, h *testdb.DBHandle, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := h.DB.Exec(`
		INSERT INTO teachers (id, name, email, pin_hash, role)
		VALUES ($1, $2, $3, '', 'teacher')`,
		id, name, id.String()+"@test.local")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestEngine_Awards(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	eng := &points.Engine{
		DB:  h.DB,
		Now: func() time.Time { return time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC) },
	}
	tid := seedTeacher(t, h, "Преподаватель")

	a1, err := eng.AwardDailyUpdate(ctx, tid, "Преподаватель")
	if err != nil {
		t.Fatal(err)
	}
	if a1.PointsAwarded != points.DailyUpdateAward || a1.Record.TotalPoints != 30 {
		t.Fatalf("daily update: %+v", a1)
	}

	a2, err := eng.AwardKSheet(ctx, tid, "Преподаватель")
	if err != nil {
		t.Fatal(err)
	}
	if a2.Record.TotalPoints != 130 {
		t.Fatalf("после k-листа итог %d, ожидали 130", a2.Record.TotalPoints)
	}

	a3, err := eng.AwardTestScore(ctx, tid, "Преподаватель", 140)
	if err != nil {
		t.Fatal(err)
	}
	if a3.PointsAwarded != 500 || a3.Record.TotalPoints != 630 {
		t.Fatalf("максимальный тест: начислено %d, итог %d", a3.PointsAwarded, a3.Record.TotalPoints)
	}
	if a3.Record.Month != "2025-09" {
		t.Fatalf("месяц накопителя: %s", a3.Record.Month)
	}

	cur, err := eng.Current(ctx, tid, "Преподаватель")
	if err != nil {
		t.Fatal(err)
	}
	if cur.TotalPoints != 630 {
		t.Fatalf("Current: итог %d", cur.TotalPoints)
	}
}

func TestEngine_Standings(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	eng := &points.Engine{
		DB:  h.DB,
		Now: func() time.Time { return time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC) },
	}

	low := seedTeacher(t, h, "Мало баллов")
	high := seedTeacher(t, h, "Много баллов")
	if _, err := eng.AwardDailyUpdate(ctx, low, "Мало баллов"); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AwardKSheet(ctx, high, "Много баллов"); err != nil {
		t.Fatal(err)
	}

	all, err := eng.Standings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(all))
	}
	if all[0].TeacherID != high || all[1].TeacherID != low {
		t.Fatalf("порядок по убыванию итога нарушен: %+v", all)
	}
}

func TestEngine_Validation(t *testing.T) {
	eng := &points.Engine{Now: time.Now}

	if _, err := eng.AwardDailyUpdate(context.Background(), uuid.Nil, "Имя"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("nil teacherId: %v", err)
	}
	if _, err := eng.AwardKSheet(context.Background(), uuid.New(), ""); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("пустое имя: %v", err)
	}
}
