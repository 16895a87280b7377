package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/metrics"
	"github.com/Spok95/tutorcenter-backend/internal/mirrorclient"
	"go.uber.org/zap"
)

const drainBatch = 100

// StartOutboxDrain — каждые 15 секунд выгружаем очередь репликации в зеркало.
// Неотправленное остаётся в очереди; порядок сохраняется (останавливаемся
// на первой неудаче, чтобы зеркало видело мутации в исходном порядке).
func StartOutboxDrain(r *Runner, database *sql.DB, mirror *mirrorclient.Client, log *zap.SugaredLogger) {
	if !mirror.Enabled() {
		log.Info("зеркало не настроено, дренаж outbox выключен")
		return
	}

	r.Every(15*time.Second, "outbox_drain", func(ctx context.Context) error {
		dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
		pending, err := db.PendingOutbox(dbCtx, database, drainBatch)
		cancel()
		if err != nil {
			return err
		}
		metrics.OutboxPending.Set(float64(len(pending)))
		if len(pending) == 0 {
			return nil
		}

		sent := make([]int64, 0, len(pending))
		for _, e := range pending {
			if err := mirror.Push(ctx, e.Entity, e.Payload); err != nil {
				log.Warnw("outbox: отправка в зеркало не удалась", "id", e.ID, "entity", e.Entity, "err", err)
				break
			}
			sent = append(sent, e.ID)
		}
		if len(sent) == 0 {
			return nil
		}

		dbCtx, cancel = ctxutil.WithDBTimeout(ctx)
		defer cancel()
		if err := db.MarkOutboxSent(dbCtx, database, sent); err != nil {
			return err
		}
		metrics.OutboxPending.Sub(float64(len(sent)))
		return nil
	})
}
