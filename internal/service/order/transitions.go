package order

import (
	"github.com/orderdesk/order-api/internal/model"
)

// trigger identifies who may drive a transition.
type trigger int

const (
	// staffOnly transitions require a STAFF or ADMIN actor.
	staffOnly trigger = iota
	// ownerOrStaff transitions may also be driven by the owning customer.
	ownerOrStaff
)

// transitions is the full lifecycle table: status × next-status → trigger.
// Anything absent from the table is illegal. COMPLETED and CANCELLED are
// terminal. Note the deliberate asymmetry: a customer may cancel from
// PENDING or IN_PROGRESS but not from ON_HOLD, where cancellation requires
// staff intervention.
var transitions = map[model.OrderStatus]map[model.OrderStatus]trigger{
	model.OrderStatusPending: {
		model.OrderStatusOnHold:     staffOnly,
		model.OrderStatusInProgress: staffOnly,
		model.OrderStatusCancelled:  ownerOrStaff,
	},
	model.OrderStatusOnHold: {
		model.OrderStatusInProgress: staffOnly,
		model.OrderStatusCancelled:  staffOnly,
	},
	model.OrderStatusInProgress: {
		model.OrderStatusCompleted: staffOnly,
		model.OrderStatusCancelled: ownerOrStaff,
	},
}

// CanTransition reports whether the actor role (owner flags the actor as the
// order's owning customer) may move an order from one status to another.
func CanTransition(from, to model.OrderStatus, role model.Role, owner bool) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	trig, ok := next[to]
	if !ok {
		return false
	}
	switch trig {
	case staffOnly:
		return role.IsStaff()
	case ownerOrStaff:
		return role.IsStaff() || (role == model.RoleCustomer && owner)
	default:
		return false
	}
}

// AllowedNext returns the statuses the actor may move the order to, in a
// stable order for error messages.
func AllowedNext(from model.OrderStatus, role model.Role, owner bool) []model.OrderStatus {
	var out []model.OrderStatus
	for _, to := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusInProgress,
		model.OrderStatusOnHold,
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
	} {
		if CanTransition(from, to, role, owner) {
			out = append(out, to)
		}
	}
	return out
}

// CustomerCancellable lists the statuses from which the owning customer may
// cancel. Derived from the table so the two can never drift apart.
func CustomerCancellable() []model.OrderStatus {
	var out []model.OrderStatus
	for _, from := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusInProgress,
		model.OrderStatusOnHold,
	} {
		if CanTransition(from, model.OrderStatusCancelled, model.RoleCustomer, true) {
			out = append(out, from)
		}
	}
	return out
}

func statusStrings(statuses []model.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
