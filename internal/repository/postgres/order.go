package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
)

type orderRepository struct {
	BaseRepository
}

func NewOrderRepository(base BaseRepository) repository.OrderRepository {
	return &orderRepository{base}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.Status = model.OrderStatusPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// A transaction-scoped advisory lock keyed on the day serializes
		// order-number assignment. The lock is held until commit, so a
		// concurrent create blocks here and then counts this row too.
		lockQuery := `SELECT pg_advisory_xact_lock($1)`
		if _, err := tx.ExecContext(ctx, lockQuery, orderNumberLockKey(order.CreatedAt)); err != nil {
			return fmt.Errorf("failed to lock order number sequence: %w", err)
		}

		var seq int64
		countQuery := `SELECT COUNT(*) FROM orders WHERE created_at::date = $1::date`
		if err := tx.GetContext(ctx, &seq, countQuery, order.CreatedAt); err != nil {
			return fmt.Errorf("failed to count today's orders: %w", err)
		}
		order.OrderNumber = orderNumber(order.CreatedAt, seq+1)

		query := `
			INSERT INTO orders (
				id, order_number, customer_id, title, description,
				special_instructions, estimated_completion, status,
				completed_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.ExecContext(ctx, query,
			order.ID,
			order.OrderNumber,
			order.CustomerID,
			order.Title,
			order.Description,
			order.SpecialInstructions,
			order.EstimatedCompletion,
			order.Status,
			order.CompletedAt,
			order.CreatedAt,
			order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// orderNumber formats the human-facing identifier: ORD-YYYYMMDD-NNNN with a
// per-day sequence.
func orderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", day.Format("20060102"), seq)
}

// Advisory lock namespace for order numbering. Keeps the per-day keys out
// of the range any other advisory lock user would pick.
const orderNumberLockNS int64 = 0x4f5244 // "ORD"

// orderNumberLockKey maps a calendar day to an advisory lock key. Two
// timestamps on the same day always produce the same key.
func orderNumberLockKey(day time.Time) int64 {
	y, m, d := day.Date()
	return orderNumberLockNS<<32 | int64(y*10000+int(m)*100+d)
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT * FROM orders WHERE id = $1`

	var order model.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.CustomerID != uuid.Nil {
		args = append(args, filter.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR order_number ILIKE $%d)",
			len(args), len(args), len(args))
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	args = append(args, filter.PageSize, filter.Offset())
	query := fmt.Sprintf("SELECT * FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var orders []*model.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateFields re-verifies the PENDING status in the UPDATE itself, so a
// transition committed between the caller's read and this write cannot be
// overwritten. Zero rows with an existing order means the status moved.
func (r *orderRepository) UpdateFields(ctx context.Context, order *model.Order) error {
	query := `
		UPDATE orders SET
			title = $1,
			description = $2,
			special_instructions = $3,
			estimated_completion = $4,
			updated_at = $5
		WHERE id = $6 AND status = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		order.Title,
		order.Description,
		order.SpecialInstructions,
		order.EstimatedCompletion,
		time.Now(),
		order.ID,
		model.OrderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, order.ID); err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if exists {
			return repository.ErrStatusChanged
		}
		return repository.ErrNotFound
	}
	return nil
}

// Transition performs the check-then-transition sequence under a row lock so
// two conflicting transitions on the same order cannot both succeed.
func (r *orderRepository) Transition(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, completedAt *time.Time, entry *model.OrderHistoryEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var current model.OrderStatus
		lockQuery := `SELECT status FROM orders WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &current, lockQuery, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if current != from {
			return repository.ErrStatusChanged
		}

		query := `UPDATE orders SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4`
		if _, err := tx.ExecContext(ctx, query, to, completedAt, time.Now(), id); err != nil {
			return fmt.Errorf("failed to transition order: %w", err)
		}

		return insertHistory(ctx, tx, entry)
	})
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, entry *model.OrderHistoryEntry) error {
	query := `
		INSERT INTO order_history (id, order_id, status, comment, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.OrderID,
		entry.Status,
		entry.Comment,
		entry.Metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append order history: %w", err)
	}
	return nil
}
