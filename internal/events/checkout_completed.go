package events

import "time"

const (
	CheckoutCompletedName    = "CheckoutCompleted"
	CheckoutCompletedVersion = 1
)

// CheckoutCompleted is emitted after the order service has accepted a
// checkout and the local cart has been cleared.
type CheckoutCompleted struct {
	OrderID     string         `json:"orderId"`
	UserID      string         `json:"userId"`
	Items       []CheckoutItem `json:"items"`
	TotalAmount float64        `json:"totalAmount"`
	Timestamp   time.Time      `json:"timestamp"`
}

type CheckoutItem struct {
	LineID    string  `json:"lineId"`
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
}
