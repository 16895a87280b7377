package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/lib/pq"
)

// OutboxEntry — отложенная репликация в зеркало. Пишем сюда после каждой
// мутации; фоновая джоба отправляет и помечает sent_at. Сбой отправки просто
// оставляет запись в очереди — ретраи бесплатные.
type OutboxEntry struct {
	ID        int64
	Entity    string
	Payload   json.RawMessage
	CreatedAt time.Time
}

func EnqueueOutbox(ctx context.Context, database *sql.DB, entity string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperr.Storage("сериализация outbox", err)
	}
	if _, err := database.ExecContext(ctx,
		`INSERT INTO outbox (entity, payload) VALUES ($1, $2)`, entity, raw); err != nil {
		return apperr.Storage("запись в outbox", err)
	}
	return nil
}

func PendingOutbox(ctx context.Context, database *sql.DB, limit int) ([]OutboxEntry, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, entity, payload, created_at FROM outbox
WHERE sent_at IS NULL ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, apperr.Storage("чтение outbox", err)
	}
	defer func() { _ = rows.Close() }()

	var out []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.Payload, &e.CreatedAt); err != nil {
			return nil, apperr.Storage("скан outbox", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func MarkOutboxSent(ctx context.Context, database *sql.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := database.ExecContext(ctx,
		`UPDATE outbox SET sent_at = NOW() WHERE id = ANY($1::bigint[])`, pq.Array(ids)); err != nil {
		return apperr.Storage("пометка outbox", err)
	}
	return nil
}

func CountPendingOutbox(ctx context.Context, database *sql.DB) (int, error) {
	var n int
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outbox WHERE sent_at IS NULL`).Scan(&n); err != nil {
		return 0, apperr.Storage("счётчик outbox", err)
	}
	return n, nil
}
