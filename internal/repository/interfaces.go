package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/model"
)

// Sentinel errors shared by all implementations. Services translate these
// into API error kinds at the boundary.
var (
	ErrNotFound = errors.New("record not found")
	// ErrStatusChanged is returned by Transition when the order status no
	// longer matches the expected value under the row lock.
	ErrStatusChanged = errors.New("order status changed concurrently")
	ErrDuplicateEmail = errors.New("email already registered")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
		List(ctx context.Context, filter *model.UserFilter) ([]*model.User, int64, error)
	}

	OrderRepository interface {
		// Create persists the order and assigns its per-day sequential
		// order number within one transaction.
		Create(ctx context.Context, order *model.Order) error
		Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
		List(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, int64, error)
		// UpdateFields writes the customer-editable fields. The row must
		// still be PENDING; ErrStatusChanged is returned when a transition
		// landed after the caller's read.
		UpdateFields(ctx context.Context, order *model.Order) error
		// Transition moves the order from `from` to `to` under a row lock,
		// setting completedAt when non-nil and appending the history entry
		// in the same transaction. Returns ErrStatusChanged if the row no
		// longer holds `from`.
		Transition(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, completedAt *time.Time, entry *model.OrderHistoryEntry) error
	}

	HistoryRepository interface {
		Create(ctx context.Context, entry *model.OrderHistoryEntry) error
		ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.OrderHistoryEntry, error)
	}

	MediaRepository interface {
		CreateCustomerFiles(ctx context.Context, files []*model.CustomerMediaFile, entries []*model.OrderHistoryEntry) error
		GetCustomerFile(ctx context.Context, id uuid.UUID) (*model.CustomerMediaFile, error)
		ListCustomerFiles(ctx context.Context, orderID uuid.UUID) ([]*model.CustomerMediaFile, error)
		DeleteCustomerFile(ctx context.Context, id uuid.UUID, entry *model.OrderHistoryEntry) error

		CreateStaffFiles(ctx context.Context, files []*model.StaffMediaFile, entries []*model.OrderHistoryEntry) error
		GetStaffFile(ctx context.Context, id uuid.UUID) (*model.StaffMediaFile, error)
		ListStaffFiles(ctx context.Context, orderID uuid.UUID) ([]*model.StaffMediaFile, error)
		UpdateStaffFile(ctx context.Context, file *model.StaffMediaFile) error
		DeleteStaffFile(ctx context.Context, id uuid.UUID, entry *model.OrderHistoryEntry) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		List(ctx context.Context, recipientID uuid.UUID, filter *model.NotificationFilter) ([]*model.Notification, int64, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	}
)
