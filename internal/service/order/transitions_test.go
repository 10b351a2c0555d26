package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orderdesk/order-api/internal/model"
)

func TestCanTransition_StaffPaths(t *testing.T) {
	tests := []struct {
		name    string
		from    model.OrderStatus
		to      model.OrderStatus
		allowed bool
	}{
		{"pending to on_hold", model.OrderStatusPending, model.OrderStatusOnHold, true},
		{"pending to in_progress", model.OrderStatusPending, model.OrderStatusInProgress, true},
		{"pending to cancelled", model.OrderStatusPending, model.OrderStatusCancelled, true},
		{"pending to completed", model.OrderStatusPending, model.OrderStatusCompleted, false},
		{"on_hold to in_progress", model.OrderStatusOnHold, model.OrderStatusInProgress, true},
		{"on_hold to cancelled", model.OrderStatusOnHold, model.OrderStatusCancelled, true},
		{"on_hold to completed", model.OrderStatusOnHold, model.OrderStatusCompleted, false},
		{"on_hold to pending", model.OrderStatusOnHold, model.OrderStatusPending, false},
		{"in_progress to completed", model.OrderStatusInProgress, model.OrderStatusCompleted, true},
		{"in_progress to cancelled", model.OrderStatusInProgress, model.OrderStatusCancelled, true},
		{"in_progress to on_hold", model.OrderStatusInProgress, model.OrderStatusOnHold, false},
		{"in_progress to pending", model.OrderStatusInProgress, model.OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to, model.RoleStaff, false))
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to, model.RoleAdmin, false))
		})
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, from := range []model.OrderStatus{model.OrderStatusCompleted, model.OrderStatusCancelled} {
		for _, to := range []model.OrderStatus{
			model.OrderStatusPending,
			model.OrderStatusInProgress,
			model.OrderStatusOnHold,
			model.OrderStatusCompleted,
			model.OrderStatusCancelled,
		} {
			assert.False(t, CanTransition(from, to, model.RoleAdmin, false),
				"terminal %s must not transition to %s", from, to)
		}
	}
}

func TestCanTransition_CustomerCancellation(t *testing.T) {
	// Owning customer may cancel from PENDING and IN_PROGRESS but not ON_HOLD.
	assert.True(t, CanTransition(model.OrderStatusPending, model.OrderStatusCancelled, model.RoleCustomer, true))
	assert.True(t, CanTransition(model.OrderStatusInProgress, model.OrderStatusCancelled, model.RoleCustomer, true))
	assert.False(t, CanTransition(model.OrderStatusOnHold, model.OrderStatusCancelled, model.RoleCustomer, true))

	// A customer who does not own the order gets nothing.
	assert.False(t, CanTransition(model.OrderStatusPending, model.OrderStatusCancelled, model.RoleCustomer, false))

	// Customers never drive staff transitions, owner or not.
	assert.False(t, CanTransition(model.OrderStatusPending, model.OrderStatusInProgress, model.RoleCustomer, true))
	assert.False(t, CanTransition(model.OrderStatusInProgress, model.OrderStatusCompleted, model.RoleCustomer, true))
}

func TestAllowedNext(t *testing.T) {
	assert.Equal(t,
		[]model.OrderStatus{model.OrderStatusInProgress, model.OrderStatusOnHold, model.OrderStatusCancelled},
		AllowedNext(model.OrderStatusPending, model.RoleStaff, false))

	assert.Equal(t,
		[]model.OrderStatus{model.OrderStatusCancelled},
		AllowedNext(model.OrderStatusPending, model.RoleCustomer, true))

	assert.Empty(t, AllowedNext(model.OrderStatusCompleted, model.RoleAdmin, false))
}

func TestCustomerCancellable(t *testing.T) {
	assert.Equal(t,
		[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusInProgress},
		CustomerCancellable())
}
