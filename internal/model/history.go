package model

import (
	"time"

	"github.com/google/uuid"
)

// History action tags
const (
	HistoryActionStatusChange  = "status_change"
	HistoryActionCancelled     = "cancelled"
	HistoryActionMediaUploaded = "media_uploaded"
	HistoryActionMediaDeleted  = "media_deleted"
)

// OrderHistoryEntry is an append-only audit record of an order lifecycle
// event. Entries are never edited or deleted; reads are newest-first.
type OrderHistoryEntry struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	OrderID   uuid.UUID   `json:"order_id" db:"order_id"`
	Status    OrderStatus `json:"status" db:"status"`
	Comment   string      `json:"comment" db:"comment"`
	Metadata  JSONMap     `json:"metadata" db:"metadata"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// NewStatusHistory builds the entry recorded on a status transition.
func NewStatusHistory(orderID uuid.UUID, prev, next OrderStatus, actor Role, comment string) *OrderHistoryEntry {
	return &OrderHistoryEntry{
		ID:      uuid.New(),
		OrderID: orderID,
		Status:  next,
		Comment: comment,
		Metadata: JSONMap{
			"action":          HistoryActionStatusChange,
			"actor_role":      string(actor),
			"previous_status": string(prev),
			"new_status":      string(next),
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
		CreatedAt: time.Now(),
	}
}

// NewMediaHistory builds the entry recorded on a media add/remove.
func NewMediaHistory(orderID uuid.UUID, status OrderStatus, action string, actor Role, channel, filename, storagePath string) *OrderHistoryEntry {
	return &OrderHistoryEntry{
		ID:      uuid.New(),
		OrderID: orderID,
		Status:  status,
		Comment: historyComment(action, filename),
		Metadata: JSONMap{
			"action":       action,
			"actor_role":   string(actor),
			"channel":      channel,
			"filename":     filename,
			"storage_path": storagePath,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		},
		CreatedAt: time.Now(),
	}
}

func historyComment(action, filename string) string {
	if action == HistoryActionMediaDeleted {
		return "File deleted: " + filename
	}
	return "File uploaded: " + filename
}
