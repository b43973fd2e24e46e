package domain

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "PENDING"
	DeliveryStatusShipped DeliveryStatus = "SHIPPED"
)

// Delivery tracks one shipment. ShipDueAt is the persisted moment the
// PENDING to SHIPPED transition becomes due; the scheduler polls for it, so
// the transition survives a restart.
type Delivery struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"order_id"`
	Address        string         `json:"address"`
	Status         DeliveryStatus `json:"status"`
	TrackingNumber string         `json:"tracking_number,omitempty"`
	ShipDueAt      time.Time      `json:"ship_due_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
