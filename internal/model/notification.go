package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes a notification for client rendering.
type NotificationType string

const (
	NotificationOrderUpdate    NotificationType = "ORDER_UPDATE"
	NotificationOrderCompleted NotificationType = "ORDER_COMPLETED"
	NotificationSystemAlert    NotificationType = "SYSTEM_ALERT"
	NotificationReminder       NotificationType = "REMINDER"
)

// Notification is an in-app message for a single recipient. Only the read
// flag is ever mutated, and only by the recipient.
type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RecipientID uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	OrderID     *uuid.UUID       `json:"order_id,omitempty" db:"order_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	SentAt      time.Time        `json:"sent_at" db:"sent_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// NotificationFilter represents notification list parameters
type NotificationFilter struct {
	Pagination
	UnreadOnly bool `form:"unread_only"`
}
