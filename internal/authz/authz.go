// Package authz holds the capability predicates consulted by every service.
// All functions are pure; absence of a capability is reported by the caller
// as a FORBIDDEN error, never a silent no-op.
package authz

import (
	"github.com/orderdesk/order-api/internal/model"
)

// CanViewOrder reports whether the actor may read the order at all.
func CanViewOrder(actor model.Actor, order *model.Order) bool {
	switch actor.Role {
	case model.RoleStaff, model.RoleAdmin:
		return true
	case model.RoleCustomer:
		return order.CustomerID == actor.ID
	default:
		return false
	}
}

// CanEditOrderFields reports whether the actor may change the order's
// content fields. Only the owning customer qualifies; the PENDING-only gate
// is a business rule checked separately by the state machine.
func CanEditOrderFields(actor model.Actor, order *model.Order) bool {
	switch actor.Role {
	case model.RoleCustomer:
		return order.CustomerID == actor.ID
	default:
		return false
	}
}

// CanAdminister reports whether the actor may manage users and roles.
func CanAdminister(actor model.Actor) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	default:
		return false
	}
}

// CanUploadCustomerMedia reports ownership for the customer media channel.
func CanUploadCustomerMedia(actor model.Actor, order *model.Order) bool {
	return actor.Role == model.RoleCustomer && order.CustomerID == actor.ID
}

// CanDeleteCustomerMedia reports whether the actor uploaded the file.
func CanDeleteCustomerMedia(actor model.Actor, file *model.CustomerMediaFile) bool {
	return actor.Role == model.RoleCustomer && file.UploaderID == actor.ID
}

// CanManageStaffMedia reports access to the staff media channel. Staff media
// belongs to the order, not an individual, so any staff member qualifies.
func CanManageStaffMedia(actor model.Actor) bool {
	switch actor.Role {
	case model.RoleStaff, model.RoleAdmin:
		return true
	default:
		return false
	}
}

// CanViewStaffMedia reports whether the actor may see the staff media list
// for an order in the given status. Customers see it only once the order is
// COMPLETED.
func CanViewStaffMedia(actor model.Actor, order *model.Order) bool {
	switch actor.Role {
	case model.RoleStaff, model.RoleAdmin:
		return true
	case model.RoleCustomer:
		return order.CustomerID == actor.ID && order.Status == model.OrderStatusCompleted
	default:
		return false
	}
}
