package db_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/Spok95/tutorcenter-backend/internal/testutil/testdb"
	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func punchAt(h, min int) models.Punch {
	return models.Punch{
		Time:     time.Date(2025, 9, 1, h, min, 0, 0, time.UTC),
		Location: models.Location{Latitude: 12.9, Longitude: 77.6, Address: "12.900000, 77.600000"},
	}
}

func TestInsertPunchIn_Race(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := mustSeedTeacher(t, h.DB, "Преподаватель", models.RoleTeacher)
	d := day(2025, 9, 1)

	// десять одновременных punch-in за один день: ровно один успех
	var ok, conflicts int64
	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.InsertPunchIn(ctx, h.DB, tid, d, punchAt(9, 0))
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case apperr.KindOf(err) == apperr.KindConflict:
				atomic.AddInt64(&conflicts, 1)
			default:
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != 9 {
		t.Fatalf("ожидали 1 успех и 9 конфликтов, получили %d и %d", ok, conflicts)
	}

	// первая запись не изменилась
	rec, err := db.GetAttendance(ctx, h.DB, tid, d)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.AttendanceInProgress || rec.PunchIn == nil || rec.PunchOut != nil {
		t.Fatalf("запись после гонки: %+v", rec)
	}
}

func TestClosePunchOut_Transitions(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := mustSeedTeacher(t, h.DB, "Преподаватель", models.RoleTeacher)
	d := day(2025, 9, 1)

	// punch-out без punch-in: записи нет
	if _, err := db.GetAttendance(ctx, h.DB, tid, d); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("ожидали NotFound, получили %v", err)
	}

	rec, err := db.InsertPunchIn(ctx, h.DB, tid, d, punchAt(9, 0))
	if err != nil {
		t.Fatal(err)
	}

	closed, err := db.ClosePunchOut(ctx, h.DB, rec.ID, punchAt(17, 30), models.AttendanceCompleted, 8.5)
	if err != nil {
		t.Fatal(err)
	}
	if closed.Status != models.AttendanceCompleted || closed.PunchOut == nil || closed.WorkingHours != 8.5 {
		t.Fatalf("после punch-out: %+v", closed)
	}

	// повторное закрытие — конфликт
	if _, err := db.ClosePunchOut(ctx, h.DB, rec.ID, punchAt(18, 0), models.AttendanceCompleted, 9); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("ожидали Conflict, получили %v", err)
	}
}

func TestListOpenForDate(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	t1 := mustSeedTeacher(t, h.DB, "Открытый", models.RoleTeacher)
	t2 := mustSeedTeacher(t, h.DB, "Закрытый", models.RoleTeacher)
	d := day(2025, 9, 1)

	r1, err := db.InsertPunchIn(ctx, h.DB, t1, d, punchAt(9, 0))
	if err != nil {
		t.Fatal(err)
	}
	r2, err := db.InsertPunchIn(ctx, h.DB, t2, d, punchAt(9, 15))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.ClosePunchOut(ctx, h.DB, r2.ID, punchAt(17, 0), models.AttendanceCompleted, 7.75); err != nil {
		t.Fatal(err)
	}

	open, err := db.ListOpenForDate(ctx, h.DB, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].ID != r1.ID {
		t.Fatalf("ожидали одну открытую запись %d, получили %+v", r1.ID, open)
	}
}

func TestInsertLegacyAttendance_DuplicatesSkipped(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := mustSeedTeacher(t, h.DB, "Импорт", models.RoleTeacher)
	rec := models.AttendanceRecord{
		TeacherID:    tid,
		Date:         day(2023, 9, 5),
		Status:       models.AttendancePresent,
		WorkingHours: 6,
	}

	ok, err := db.InsertLegacyAttendance(ctx, h.DB, rec)
	if err != nil || !ok {
		t.Fatalf("первый импорт должен пройти: ok=%v err=%v", ok, err)
	}
	ok, err = db.InsertLegacyAttendance(ctx, h.DB, rec)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("повторный импорт того же дня должен быть пропущен")
	}
}

func TestOutbox_EnqueueDrainMark(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := uuid.New()
	for i := 0; i < 3; i++ {
		if err := db.EnqueueOutbox(ctx, h.DB, "attendance", map[string]any{"teacherId": tid, "n": i}); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := db.PendingOutbox(ctx, h.DB, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 3 {
		t.Fatalf("ожидали 3 записи, получили %d", len(pending))
	}

	if err := db.MarkOutboxSent(ctx, h.DB, []int64{pending[0].ID, pending[1].ID}); err != nil {
		t.Fatal(err)
	}
	n, err := db.CountPendingOutbox(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("ожидали 1 неотправленную, получили %d", n)
	}
}
