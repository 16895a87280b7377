package db_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/Spok95/tutorcenter-backend/internal/testutil/testdb"
	"github.com/google/uuid"
)

func TestAddPoints_Parallel(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	t1 := mustSeedTeacher(t, h.DB, "Преподаватель 1", models.RoleTeacher)
	t2 := mustSeedTeacher(t, h.DB, "Преподаватель 2", models.RoleTeacher)
	const month = "2025-09"

	// две горутины на каждого: гонка за один (teacher_id, month)
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := db.AddPoints(ctx, h.DB, t1, "Преподаватель 1", month, 30, 0, 0); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := db.AddPoints(ctx, h.DB, t2, "Преподаватель 2", month, 30, 0, 0); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	p1, err := db.GetOrCreatePoints(ctx, h.DB, t1, "Преподаватель 1", month)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := db.GetOrCreatePoints(ctx, h.DB, t2, "Преподаватель 2", month)
	if err != nil {
		t.Fatal(err)
	}
	if p1.TotalPoints != 1500 || p2.TotalPoints != 1500 {
		t.Fatalf("ожидали по 1500 баллов, получили %d и %d", p1.TotalPoints, p2.TotalPoints)
	}
}

func TestAddPoints_TotalDerived(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := mustSeedTeacher(t, h.DB, "Преподаватель", models.RoleTeacher)
	const month = "2025-09"

	steps := []struct{ daily, ksheet, test int }{
		{30, 0, 0},
		{0, 100, 0},
		{0, 0, 425},
		{30, 100, 0},
	}
	for _, st := range steps {
		p, err := db.AddPoints(ctx, h.DB, tid, "Преподаватель", month, st.daily, st.ksheet, st.test)
		if err != nil {
			t.Fatal(err)
		}
		if want := p.DailyUpdatePoints + p.KSheetPoints + p.TestPoints; p.TotalPoints != want {
			t.Fatalf("total %d != сумма слагаемых %d", p.TotalPoints, want)
		}
	}

	p, err := db.GetOrCreatePoints(ctx, h.DB, tid, "Преподаватель", month)
	if err != nil {
		t.Fatal(err)
	}
	if p.DailyUpdatePoints != 60 || p.KSheetPoints != 200 || p.TestPoints != 425 || p.TotalPoints != 685 {
		t.Fatalf("накопитель разошёлся: %+v", p)
	}
}

func TestGetOrCreatePoints_LazyCreate(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	tid := mustSeedTeacher(t, h.DB, "Новичок", models.RoleTeacher)

	p, err := db.GetOrCreatePoints(ctx, h.DB, tid, "Новичок", "2025-09")
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalPoints != 0 || p.DailyUpdatePoints != 0 {
		t.Fatalf("новый накопитель должен быть нулевым: %+v", p)
	}
	// повторное чтение возвращает ту же запись
	again, err := db.GetOrCreatePoints(ctx, h.DB, tid, "Новичок", "2025-09")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != p.ID {
		t.Fatalf("ожидали ту же запись, получили id %d и %d", p.ID, again.ID)
	}
}

func TestPoints_UnknownTeacher(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	ghost := uuid.New() // в teachers не заведён

	if _, err := db.AddPoints(ctx, h.DB, ghost, "Призрак", "2025-09", 30, 0, 0); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("начисление несуществующему: ожидали NotFound, получили %v", err)
	}
	if _, err := db.GetOrCreatePoints(ctx, h.DB, ghost, "Призрак", "2025-09"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("чтение по несуществующему: ожидали NotFound, получили %v", err)
	}
}

func mustSeedTeacher(t testing.TB, database *sql.DB, name string, role models.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := database.Exec(`
		INSERT INTO teachers (id, name, email, pin_hash, role)
		VALUES ($1, $2, $3, '', $4)`,
		id, name, id.String()+"@test.local", string(role))
	if err != nil {
		t.Fatal(err)
	}
	return id
}
