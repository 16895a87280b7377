package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/attendance"
	"github.com/Spok95/tutorcenter-backend/internal/config"
	"github.com/Spok95/tutorcenter-backend/internal/geo"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/Spok95/tutorcenter-backend/internal/testutil/testdb"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestReconciler(h *testdb.DBHandle, now time.Time) *attendance.Reconciler {
	return &attendance.Reconciler{
		DB:     h.DB,
		Geo:    geo.NewResolver(""),
		Log:    zap.NewNop().Sugar(),
		Loc:    time.UTC,
		Cutoff: config.DayTime{Hour: 22, Minute: 30},
		Now:    func() time.Time { return now },
	}
}

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

func TestReconciler_PunchInPunchOut(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := seedTeacher(t, h, "Преподаватель")
	morning := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	rec := newTestReconciler(h, morning)

	in, err := rec.PunchIn(ctx, tid, 12.9, 77.6)
	if err != nil {
		t.Fatal(err)
	}
	if in.Status != models.AttendanceInProgress {
		t.Fatalf("ожидали статус %s, получили %s", models.AttendanceInProgress, in.Status)
	}
	if in.PunchIn.Location.Address != "12.900000, 77.600000" {
		t.Fatalf("адрес без геокодера: %q", in.PunchIn.Location.Address)
	}

	// повторный punch-in за тот же день
	if _, err := rec.PunchIn(ctx, tid, 12.9, 77.6); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("ожидали Conflict, получили %v", err)
	}

	rec.Now = func() time.Time { return time.Date(2025, 9, 1, 17, 30, 0, 0, time.UTC) }
	out, err := rec.PunchOut(ctx, tid, 12.91, 77.61)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != models.AttendanceCompleted || out.WorkingHours != 8.5 {
		t.Fatalf("после punch-out: статус %s, часы %v", out.Status, out.WorkingHours)
	}

	// повторный punch-out
	if _, err := rec.PunchOut(ctx, tid, 12.9, 77.6); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("ожидали Conflict, получили %v", err)
	}
}

func TestReconciler_PunchOutWithoutPunchIn(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	tid := seedTeacher(t, h, "Преподаватель")
	rec := newTestReconciler(h, time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))

	if _, err := rec.PunchOut(context.Background(), tid, 12.9, 77.6); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("ожидали NotFound, получили %v", err)
	}
}

func TestReconciler_Sweep(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	forgot := seedTeacher(t, h, "Забыл выйти")
	closed := seedTeacher(t, h, "Вышел сам")

	morning := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	rec := newTestReconciler(h, morning)

	if _, err := rec.PunchIn(ctx, forgot, 12.9, 77.6); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.PunchIn(ctx, closed, 12.9, 77.6); err != nil {
		t.Fatal(err)
	}
	rec.Now = func() time.Time { return time.Date(2025, 9, 1, 17, 0, 0, 0, time.UTC) }
	if _, err := rec.PunchOut(ctx, closed, 12.9, 77.6); err != nil {
		t.Fatal(err)
	}

	// sweep после cutoff: закрывается только забытый день
	rec.Now = func() time.Time { return time.Date(2025, 9, 1, 22, 30, 0, 0, time.UTC) }
	reconciled, err := rec.RunAutoPunchOut(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reconciled) != 1 {
		t.Fatalf("ожидали 1 закрытую запись, получили %d", len(reconciled))
	}

	got := reconciled[0]
	if got.TeacherID != forgot {
		t.Fatalf("закрыт не тот преподаватель: %s", got.TeacherID)
	}
	if got.Status != models.AttendanceAutoPunchedOut {
		t.Fatalf("ожидали статус %s, получили %s", models.AttendanceAutoPunchedOut, got.Status)
	}
	wantCutoff := time.Date(2025, 9, 1, 22, 30, 0, 0, time.UTC)
	if !got.PunchOut.Time.Equal(wantCutoff) {
		t.Fatalf("время выхода %v, ожидали cutoff %v", got.PunchOut.Time, wantCutoff)
	}
	if got.PunchOut.Location != got.PunchIn.Location {
		t.Fatalf("локация выхода должна копировать вход: %+v != %+v", got.PunchOut.Location, got.PunchIn.Location)
	}
	if got.WorkingHours != 13.5 {
		t.Fatalf("часы: %v", got.WorkingHours)
	}

	// повторный sweep идемпотентен
	again, err := rec.RunAutoPunchOut(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Fatalf("повторный sweep закрыл %d записей", len(again))
	}
}
