package order

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/authz"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/errors"
	"github.com/orderdesk/order-api/pkg/logger"
)

// Notifier receives order lifecycle events. Implemented by the notification
// service; only staff-driven transitions are announced to the customer.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *model.Order, prev model.OrderStatus, actor model.Role) error
}

type Service struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	history  repository.HistoryRepository
	media    repository.MediaRepository
	notifier Notifier
	logger   *logger.Logger
}

func NewService(orders repository.OrderRepository, users repository.UserRepository,
	history repository.HistoryRepository, media repository.MediaRepository,
	notifier Notifier, logger *logger.Logger) *Service {
	return &Service{
		orders:   orders,
		users:    users,
		history:  history,
		media:    media,
		notifier: notifier,
		logger:   logger,
	}
}

// Create opens a new order for a customer. Orders always start PENDING.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error) {
	if actor.Role != model.RoleCustomer {
		return nil, errors.Forbidden("only customers can create orders")
	}

	order := &model.Order{
		CustomerID:          actor.ID,
		Title:               req.Title,
		Description:         req.Description,
		SpecialInstructions: req.SpecialInstructions,
		EstimatedCompletion: req.EstimatedCompletion,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to create order: %w", err))
	}
	return order, nil
}

// Get returns the full order detail. The staff-media sublist is emptied for
// customers unless the order is COMPLETED.
func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.OrderDetail, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewOrder(actor, order) {
		return nil, errors.Forbidden("you do not have access to this order")
	}

	detail := &model.OrderDetail{Order: order}

	if customer, err := s.users.Get(ctx, order.CustomerID); err == nil {
		detail.Customer = customer.Summary()
	}

	detail.History, err = s.history.ListByOrder(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}

	detail.CustomerMedia, err = s.media.ListCustomerFiles(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}

	detail.StaffMedia = []*model.StaffMediaFile{}
	if authz.CanViewStaffMedia(actor, order) {
		detail.StaffMedia, err = s.media.ListStaffFiles(ctx, id)
		if err != nil {
			return nil, errors.Internal(err)
		}
	}
	return detail, nil
}

// List returns a page of orders. Customers are always scoped to their own.
func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.OrderFilter) ([]*model.Order, int64, error) {
	filter.Normalize()
	if actor.Role == model.RoleCustomer {
		filter.CustomerID = actor.ID
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.Internal(err)
	}
	return orders, total, nil
}

// UpdateFields applies a partial update of the customer-editable fields.
// Owner only, PENDING only, at least one field.
func (s *Service) UpdateFields(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error) {
	if req.Empty() {
		return nil, errors.Validation("at least one field must be provided", nil)
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditOrderFields(actor, order) {
		return nil, errors.Forbidden("only the order's customer can edit it")
	}
	if order.Status != model.OrderStatusPending {
		return nil, errors.BusinessRule(
			fmt.Sprintf("order can only be edited while %s", model.OrderStatusPending),
			map[string]interface{}{
				"current_status":   string(order.Status),
				"allowed_statuses": []string{string(model.OrderStatusPending)},
			})
	}

	if req.Title != nil {
		order.Title = *req.Title
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.SpecialInstructions != nil {
		order.SpecialInstructions = req.SpecialInstructions
	}
	if req.EstimatedCompletion != nil {
		order.EstimatedCompletion = req.EstimatedCompletion
	}

	if err := s.orders.UpdateFields(ctx, order); err != nil {
		return nil, s.mapRepoErr(err)
	}
	return order, nil
}

// Cancel is the customer-facing cancellation. Owner only; permitted statuses
// come from the transition table. Records history but emits no notification.
func (s *Service) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleCustomer || order.CustomerID != actor.ID {
		return nil, errors.Forbidden("only the order's customer can cancel it")
	}

	if !CanTransition(order.Status, model.OrderStatusCancelled, actor.Role, true) {
		return nil, errors.BusinessRule(
			fmt.Sprintf("order cannot be cancelled while %s", order.Status),
			map[string]interface{}{
				"current_status":   string(order.Status),
				"allowed_statuses": statusStrings(CustomerCancellable()),
			})
	}

	comment := "Order cancelled by customer"
	if reason != "" {
		comment = fmt.Sprintf("Order cancelled by customer: %s", reason)
	}
	entry := model.NewStatusHistory(order.ID, order.Status, model.OrderStatusCancelled, actor.Role, comment)

	if err := s.orders.Transition(ctx, order.ID, order.Status, model.OrderStatusCancelled, nil, entry); err != nil {
		return nil, s.mapRepoErr(err)
	}

	order.Status = model.OrderStatusCancelled
	return order, nil
}

// UpdateStatus moves an order per the transition table. Staff/admin only.
func (s *Service) UpdateStatus(ctx context.Context, actor model.Actor, id uuid.UUID, next model.OrderStatus, comment string) (*model.Order, error) {
	if !actor.Role.IsStaff() {
		return nil, errors.Forbidden("only staff can change order status")
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, next, actor.Role, false) {
		return nil, errors.BusinessRule(
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, next),
			map[string]interface{}{
				"current_status":   string(order.Status),
				"allowed_statuses": statusStrings(AllowedNext(order.Status, actor.Role, false)),
			})
	}

	var completedAt *time.Time
	if next == model.OrderStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if comment == "" {
		comment = fmt.Sprintf("Status changed from %s to %s", order.Status, next)
	}
	prev := order.Status
	entry := model.NewStatusHistory(order.ID, prev, next, actor.Role, comment)

	if err := s.orders.Transition(ctx, order.ID, prev, next, completedAt, entry); err != nil {
		return nil, s.mapRepoErr(err)
	}

	order.Status = next
	order.CompletedAt = completedAt

	// Staff-driven transitions notify the customer. Delivery failure is
	// logged, not surfaced: the transition already committed.
	if err := s.notifier.OrderStatusChanged(ctx, order, prev, actor.Role); err != nil {
		s.logger.Error(err, "failed to send order status notification",
			"order_id", order.ID.String())
	}
	return order, nil
}

func (s *Service) getOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return order, nil
}

func (s *Service) mapRepoErr(err error) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound("order")
	case stderrors.Is(err, repository.ErrStatusChanged):
		return errors.BusinessRule("order was modified concurrently, please retry", nil)
	default:
		return errors.Internal(err)
	}
}
