package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationKind discriminates the three mock emails this service sends.
type NotificationKind string

const (
	KindOrderConfirmation NotificationKind = "order_confirmation"
	KindPaymentReceived   NotificationKind = "payment_received"
	KindShippingUpdate    NotificationKind = "shipping_update"
)

// Notification is one sent (mock) email, kept as history.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID int64              `bson:"order_id" json:"order_id"`
	UserID  int64              `bson:"user_id" json:"user_id"`
	Kind    NotificationKind   `bson:"kind" json:"kind"`
	Subject string             `bson:"subject" json:"subject"`
	Body    string             `bson:"body" json:"body"`
	SentAt  time.Time          `bson:"sent_at" json:"sent_at"`
}
