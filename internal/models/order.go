package models

// OrderStatus values written to the "status" field of an order.
type OrderStatus string

const (
	// StatusPending is what a paid order is marked as. Clients rely on this value.
	StatusPending OrderStatus = "Pending"
	StatusShifted OrderStatus = "Shifted"
)

// OrderEvent is published to the message broker whenever an order changes.
type OrderEvent struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	OrderID       string      `json:"orderId"`
	UID           string      `json:"uid,omitempty"`
	Status        OrderStatus `json:"status,omitempty"`
	TransactionID string      `json:"transactionId,omitempty"`
	OccurredAt    int64       `json:"occurredAt"`
}
