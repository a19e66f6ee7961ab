package postgres

import (
	"context"
	"database/sql"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/model"
)

// KickEventsRepo mirrors audit rows into Postgres for ad-hoc querying. The
// xlsx workbook stays the source of truth; this table is write-only from the
// bot's point of view.
type KickEventsRepo struct {
	db *sql.DB
}

func NewKickEventsRepo(db *sql.DB) *KickEventsRepo {
	return &KickEventsRepo{db: db}
}

func (r *KickEventsRepo) Save(ctx context.Context, event model.KickEvent) error {
	if r.db == nil {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kick_events (recorded_at, chat_title, target_display, operator_display, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, event.Time, event.ChatTitle, event.TargetDisplay, event.OperatorDisplay, event.Reason)
	return err
}
