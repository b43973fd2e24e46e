package events

// OrderItem is the line-item shape carried inside order events.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int32   `json:"quantity"`
}

// OrderCreatedData announces a freshly persisted order with its priced items.
// ExpireAt is informational: nobody enforces expiry, it marks when an unpaid
// order is considered abandoned.
type OrderCreatedData struct {
	OrderID           int64       `json:"orderId"`
	UserID            int64       `json:"userId"`
	Items             []OrderItem `json:"items"`
	ItemsPrice        float64     `json:"itemsPrice"`
	ShippingPrice     float64     `json:"shippingPrice"`
	TotalPrice        float64     `json:"totalPrice"`
	ShippingAddressID int64       `json:"shippingAddressId"`
	ExpireAt          int64       `json:"expireAt"`
}

func (OrderCreatedData) EventType() string { return TypeOrderCreated }

// OrderCancelledData carries the original line items so the product service
// can restore reserved stock.
type OrderCancelledData struct {
	OrderID int64       `json:"orderId"`
	UserID  int64       `json:"userId"`
	Items   []OrderItem `json:"items"`
	Reason  string      `json:"reason"`
}

func (OrderCancelledData) EventType() string { return TypeOrderCancelled }

// OrderPaidData is published by the payment service on a successful payment.
type OrderPaidData struct {
	OrderID   int64   `json:"orderId"`
	PaymentID int64   `json:"paymentId"`
	Amount    float64 `json:"amount"`
	PaidAt    int64   `json:"paidAt"`
}

func (OrderPaidData) EventType() string { return TypeOrderPaid }

// PaymentFailedData is published when the gateway declines a payment.
type PaymentFailedData struct {
	PaymentID int64  `json:"paymentId"`
	OrderID   int64  `json:"orderId"`
	UserID    int64  `json:"userId"`
	Reason    string `json:"reason"`
}

func (PaymentFailedData) EventType() string { return TypePaymentFailed }

// DeliveryShippedData is published once a delivery leaves the warehouse.
type DeliveryShippedData struct {
	DeliveryID     int64  `json:"deliveryId"`
	OrderID        int64  `json:"orderId"`
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
}

func (DeliveryShippedData) EventType() string { return TypeDeliveryShipped }

// ProductChanges lists the mutated fields of a product.
type ProductChanges struct {
	Price *float64 `json:"price,omitempty"`
	Stock *int32   `json:"stock,omitempty"`
}

// ProductUpdatedData is published after a successful stock mutation.
type ProductUpdatedData struct {
	ProductID int64          `json:"productId"`
	Changes   ProductChanges `json:"changes"`
}

func (ProductUpdatedData) EventType() string { return TypeProductUpdated }
