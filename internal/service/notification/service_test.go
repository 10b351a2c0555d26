package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-api/internal/email"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/errors"
	"github.com/orderdesk/order-api/pkg/logger"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*model.Notification
	unreadQueries int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]*model.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New()
	n.SentAt = time.Now()
	n.CreatedAt = time.Now()
	r.notifications[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) Get(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) List(_ context.Context, recipientID uuid.UUID, filter *model.NotificationFilter) ([]*model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unreadQueries++
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(context.Context, *model.User) error { return nil }
func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}
func (r *fakeUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (r *fakeUserRepo) Update(context.Context, *model.User) error               { return nil }
func (r *fakeUserRepo) UpdateRole(context.Context, uuid.UUID, model.Role) error { return nil }
func (r *fakeUserRepo) List(context.Context, *model.UserFilter) ([]*model.User, int64, error) {
	return nil, 0, nil
}

type fakeBroker struct {
	mu        sync.Mutex
	published []interface{}
}

func (b *fakeBroker) Publish(_ context.Context, _ string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, message)
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *fakeBroker) Close() error                                             { return nil }

type fixture struct {
	svc    *Service
	repo   *fakeNotificationRepo
	broker *fakeBroker
}

func newFixture() *fixture {
	f := &fixture{repo: newFakeNotificationRepo(), broker: &fakeBroker{}}
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	f.svc = NewService(f.repo, users, f.broker, email.NopService{}, logger.NewLogger(nil))
	return f
}

func testNotifOrder(customerID uuid.UUID, status model.OrderStatus) *model.Order {
	return &model.Order{
		Base:        model.Base{ID: uuid.New()},
		OrderNumber: "ORD-20250101-0007",
		CustomerID:  customerID,
		Status:      status,
	}
}

func TestOrderStatusChanged(t *testing.T) {
	f := newFixture()
	customerID := uuid.New()
	order := testNotifOrder(customerID, model.OrderStatusInProgress)

	require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusPending, model.RoleStaff))

	require.Len(t, f.repo.notifications, 1)
	for _, n := range f.repo.notifications {
		assert.Equal(t, customerID, n.RecipientID)
		assert.Equal(t, model.NotificationOrderUpdate, n.Type)
		require.NotNil(t, n.OrderID)
		assert.Equal(t, order.ID, *n.OrderID)
		assert.False(t, n.IsRead)
		assert.Contains(t, n.Message, "PENDING")
		assert.Contains(t, n.Message, "IN_PROGRESS")
	}
	assert.Len(t, f.broker.published, 1)
}

func TestOrderStatusChanged_CompletedType(t *testing.T) {
	f := newFixture()
	order := testNotifOrder(uuid.New(), model.OrderStatusCompleted)

	require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusInProgress, model.RoleStaff))

	for _, n := range f.repo.notifications {
		assert.Equal(t, model.NotificationOrderCompleted, n.Type)
		assert.Contains(t, n.Title, "completed")
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	f := newFixture()
	recipient := model.Actor{ID: uuid.New(), Role: model.RoleCustomer}
	order := testNotifOrder(recipient.ID, model.OrderStatusInProgress)
	require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusPending, model.RoleStaff))

	var id uuid.UUID
	for nid := range f.repo.notifications {
		id = nid
	}

	n, err := f.svc.MarkRead(context.Background(), recipient, id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	// Second mark succeeds and stays read.
	n, err = f.svc.MarkRead(context.Background(), recipient, id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
}

func TestMarkRead_OtherUsersNotification(t *testing.T) {
	f := newFixture()
	recipient := uuid.New()
	order := testNotifOrder(recipient, model.OrderStatusInProgress)
	require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusPending, model.RoleStaff))

	var id uuid.UUID
	for nid := range f.repo.notifications {
		id = nid
	}

	_, err := f.svc.MarkRead(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleCustomer}, id)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.FromError(err).Kind)
}

func TestMarkRead_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MarkRead(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleCustomer}, uuid.New())
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.FromError(err).Kind)
}

func TestUnreadCount_Cached(t *testing.T) {
	f := newFixture()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleCustomer}
	order := testNotifOrder(actor.ID, model.OrderStatusInProgress)
	require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusPending, model.RoleStaff))

	count, err := f.svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Repeated polls within the TTL hit the cache, not the repository.
	_, err = f.svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.unreadQueries)
}

func TestUnreadCount_InvalidatedOnMarkRead(t *testing.T) {
	f := newFixture()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleCustomer}
	order := testNotifOrder(actor.ID, model.OrderStatusInProgress)
	require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusPending, model.RoleStaff))

	count, err := f.svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	var id uuid.UUID
	for nid := range f.repo.notifications {
		id = nid
	}
	_, err = f.svc.MarkRead(context.Background(), actor, id)
	require.NoError(t, err)

	count, err = f.svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestList_UnreadOnly(t *testing.T) {
	f := newFixture()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleCustomer}

	for i := 0; i < 2; i++ {
		order := testNotifOrder(actor.ID, model.OrderStatusInProgress)
		require.NoError(t, f.svc.OrderStatusChanged(context.Background(), order, model.OrderStatusPending, model.RoleStaff))
	}

	var id uuid.UUID
	for nid := range f.repo.notifications {
		id = nid
		break
	}
	_, err := f.svc.MarkRead(context.Background(), actor, id)
	require.NoError(t, err)

	items, total, err := f.svc.List(context.Background(), actor, &model.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
}
