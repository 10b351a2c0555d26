package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order lifecycle state. Transitions are governed by the
// table in service/order; nothing else mutates status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusOnHold     OrderStatus = "ON_HOLD"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is the central work item tracked through the status lifecycle.
// Orders are never hard-deleted; cancellation is a status.
type Order struct {
	Base
	OrderNumber         string      `json:"order_number" db:"order_number"`
	CustomerID          uuid.UUID   `json:"customer_id" db:"customer_id"`
	Title               string      `json:"title" db:"title"`
	Description         string      `json:"description" db:"description"`
	SpecialInstructions *string     `json:"special_instructions,omitempty" db:"special_instructions"`
	EstimatedCompletion *time.Time  `json:"estimated_completion,omitempty" db:"estimated_completion"`
	Status              OrderStatus `json:"status" db:"status"`
	CompletedAt         *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// OrderDetail is the full get-order projection. StaffMedia is emptied for
// customers unless the order is COMPLETED.
type OrderDetail struct {
	*Order
	Customer      *UserSummary         `json:"customer,omitempty"`
	History       []*OrderHistoryEntry `json:"history"`
	CustomerMedia []*CustomerMediaFile `json:"customer_media"`
	StaffMedia    []*StaffMediaFile    `json:"staff_media"`
}

// CreateOrderRequest represents order creation parameters
type CreateOrderRequest struct {
	Title               string     `json:"title" binding:"required,max=200"`
	Description         string     `json:"description" binding:"required"`
	SpecialInstructions *string    `json:"special_instructions"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
}

// UpdateOrderRequest carries a partial update of the customer-editable
// fields. Nil fields are left unchanged; at least one must be set.
type UpdateOrderRequest struct {
	Title               *string    `json:"title" binding:"omitempty,max=200"`
	Description         *string    `json:"description"`
	SpecialInstructions *string    `json:"special_instructions"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
}

// Empty reports whether no field was supplied.
func (r *UpdateOrderRequest) Empty() bool {
	return r.Title == nil && r.Description == nil &&
		r.SpecialInstructions == nil && r.EstimatedCompletion == nil
}

// UpdateStatusRequest moves an order to a new status. Staff/admin only.
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS ON_HOLD COMPLETED CANCELLED"`
	Comment string `json:"comment"`
}

// CancelOrderRequest is the customer-facing cancellation payload.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderFilter represents order search parameters
type OrderFilter struct {
	Pagination
	Status     string `form:"status"`
	SearchTerm string `form:"search"`
	// CustomerID scopes the listing; set by the service for customer actors.
	CustomerID uuid.UUID `form:"-"`
}
