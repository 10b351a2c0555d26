package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
)

type historyRepository struct {
	BaseRepository
}

func NewHistoryRepository(base BaseRepository) repository.HistoryRepository {
	return &historyRepository{base}
}

func (r *historyRepository) Create(ctx context.Context, entry *model.OrderHistoryEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertHistory(ctx, tx, entry)
	})
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.OrderHistoryEntry, error) {
	query := `
		SELECT * FROM order_history
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	var entries []*model.OrderHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list order history: %w", err)
	}
	return entries, nil
}
