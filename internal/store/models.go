package store

import "time"

// Persisted rows for the four tables: calls, customers, orders, order_items.
//
// CallRecord status transitions monotonically from in_progress to exactly one
// terminal value; the Postgres gateway enforces single-terminal with a status
// guard on the UPDATE.

type CallRecord struct {
	ID              string     `json:"id" db:"id"`
	CallSID         string     `json:"call_sid" db:"call_sid"`
	StreamSID       string     `json:"stream_sid" db:"stream_sid"`
	CallerPhone     string     `json:"caller_phone" db:"caller_phone"`
	RestaurantPhone string     `json:"restaurant_phone" db:"restaurant_phone"`
	Status          CallStatus `json:"status" db:"status"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`
	FailureReason   string     `json:"failure_reason,omitempty" db:"failure_reason"`
}

type CallStatus string

const (
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusEscalated  CallStatus = "escalated"
	CallStatusFailed     CallStatus = "failed"
)

// Customer is keyed by phone number; re-ordering with the same number
// updates the stored name.
type Customer struct {
	ID          string `json:"id" db:"id"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`
	Name        string `json:"name" db:"name"`
}

type Order struct {
	ID           string  `json:"id" db:"id"`
	RestaurantID string  `json:"restaurant_id" db:"restaurant_id"`
	CustomerID   string  `json:"customer_id" db:"customer_id"`
	CallSID      string  `json:"call_sid" db:"call_sid"`
	Status       string  `json:"status" db:"status"`
	TotalAmount  float64 `json:"total_amount" db:"total_amount"`
}

type OrderItem struct {
	OrderID        string            `json:"order_id" db:"order_id"`
	ItemName       string            `json:"item_name" db:"item_name"`
	Quantity       int               `json:"quantity" db:"quantity"`
	UnitPrice      float64           `json:"unit_price" db:"unit_price"`
	Customizations map[string]string `json:"customizations" db:"customizations"`
}
