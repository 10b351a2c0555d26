package notification

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/orderdesk/order-api/internal/email"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/errors"
	"github.com/orderdesk/order-api/pkg/logger"
	"github.com/orderdesk/order-api/pkg/messaging"
)

const (
	// brokerChannel is the pub/sub channel real-time consumers subscribe to.
	brokerChannel = "notifications"

	// unreadCountTTL bounds staleness of the polled unread counter.
	unreadCountTTL = 5 * time.Second
)

type Service struct {
	repo     repository.NotificationRepository
	users    repository.UserRepository
	broker   messaging.Broker
	emailSvc email.Service
	cache    *gocache.Cache
	logger   *logger.Logger
}

func NewService(repo repository.NotificationRepository, users repository.UserRepository,
	broker messaging.Broker, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		broker:   broker,
		emailSvc: emailSvc,
		cache:    gocache.New(unreadCountTTL, time.Minute),
		logger:   logger,
	}
}

// OrderStatusChanged implements order.Notifier. One notification per
// customer per staff-driven transition; customer-initiated cancellations
// never reach this method.
func (s *Service) OrderStatusChanged(ctx context.Context, order *model.Order, prev model.OrderStatus, actor model.Role) error {
	nType := model.NotificationOrderUpdate
	title := fmt.Sprintf("Order %s updated", order.OrderNumber)
	message := fmt.Sprintf("Your order %s moved from %s to %s.", order.OrderNumber, prev, order.Status)

	if order.Status == model.OrderStatusCompleted {
		nType = model.NotificationOrderCompleted
		title = fmt.Sprintf("Order %s completed", order.OrderNumber)
		message = fmt.Sprintf("Your order %s has been completed.", order.OrderNumber)
	}

	orderID := order.ID
	n := &model.Notification{
		RecipientID: order.CustomerID,
		OrderID:     &orderID,
		Type:        nType,
		Title:       title,
		Message:     message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.cache.Delete(cacheKey(order.CustomerID))

	if err := s.broker.Publish(ctx, brokerChannel, n); err != nil {
		s.logger.Error(err, "failed to publish notification event", "notification_id", n.ID.String())
	}
	go s.sendEmail(n)

	return nil
}

func (s *Service) sendEmail(n *model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.users.Get(ctx, n.RecipientID)
	if err != nil {
		s.logger.Error(err, "failed to load notification recipient", "recipient_id", n.RecipientID.String())
		return
	}
	if err := s.emailSvc.SendNotification(ctx, user.Email, n.Title, n.Message); err != nil {
		s.logger.Error(err, "failed to send notification email", "recipient_id", n.RecipientID.String())
	}
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.NotificationFilter) ([]*model.Notification, int64, error) {
	filter.Normalize()
	items, total, err := s.repo.List(ctx, actor.ID, filter)
	if err != nil {
		return nil, 0, errors.Internal(err)
	}
	return items, total, nil
}

// MarkRead flips the read flag. Idempotent: re-marking an already-read
// notification succeeds.
func (s *Service) MarkRead(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("notification")
		}
		return nil, errors.Internal(err)
	}
	if n.RecipientID != actor.ID {
		return nil, errors.Forbidden("notification belongs to another user")
	}

	if !n.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, errors.Internal(err)
		}
		n.IsRead = true
		s.cache.Delete(cacheKey(actor.ID))
	}
	return n, nil
}

// UnreadCount is scoped to the requesting user and cached briefly, so
// clients can poll it without load concerns.
func (s *Service) UnreadCount(ctx context.Context, actor model.Actor) (int64, error) {
	key := cacheKey(actor.ID)
	if v, ok := s.cache.Get(key); ok {
		return v.(int64), nil
	}

	count, err := s.repo.UnreadCount(ctx, actor.ID)
	if err != nil {
		return 0, errors.Internal(err)
	}
	s.cache.Set(key, count, unreadCountTTL)
	return count, nil
}

func cacheKey(userID uuid.UUID) string {
	return "unread:" + userID.String()
}
