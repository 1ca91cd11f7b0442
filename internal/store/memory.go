package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-memory Gateway for tests and local development.
//
// Failure injection: set the Fail* hooks to return an error for a given
// method; the hook is consulted before any mutation.
type Memory struct {
	mu sync.Mutex

	Calls      map[string]*CallRecord // keyed by call_sid
	Customers  map[string]*Customer   // keyed by phone_number
	Orders     []Order
	OrderItems []OrderItem

	FailCreateCall       func() error
	FailUpsertCustomer   func() error
	FailInsertOrder      func() error
	FailInsertOrderItems func() error

	Clock func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		Calls:     map[string]*CallRecord{},
		Customers: map[string]*Customer{},
		Clock:     time.Now,
	}
}

func (m *Memory) CreateCall(ctx context.Context, callSID, streamSID, callerPhone, restaurantPhone string) (CallRecord, error) {
	if callSID == "" || streamSID == "" {
		return CallRecord{}, ErrInvalidArgument
	}
	// Hooks run outside the lock so a blocking hook cannot wedge the store.
	if m.FailCreateCall != nil {
		if err := m.FailCreateCall(); err != nil {
			return CallRecord{}, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := CallRecord{
		ID:              uuid.NewString(),
		CallSID:         callSID,
		StreamSID:       streamSID,
		CallerPhone:     callerPhone,
		RestaurantPhone: restaurantPhone,
		Status:          CallStatusInProgress,
		StartedAt:       m.Clock().UTC(),
	}
	m.Calls[callSID] = &rec
	return rec, nil
}

func (m *Memory) CompleteCall(ctx context.Context, callSID string, startedAt time.Time) error {
	now := m.Clock().UTC()
	duration := int(now.Sub(startedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	return m.terminal(callSID, CallStatusCompleted, now, duration, "")
}

func (m *Memory) EscalateCall(ctx context.Context, callSID string) error {
	return m.terminal(callSID, CallStatusEscalated, m.Clock().UTC(), 0, "")
}

func (m *Memory) FailCall(ctx context.Context, callSID, reason string) error {
	return m.terminal(callSID, CallStatusFailed, m.Clock().UTC(), 0, reason)
}

func (m *Memory) terminal(callSID string, status CallStatus, endedAt time.Time, duration int, reason string) error {
	if callSID == "" {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Calls[callSID]
	if !ok || rec.Status != CallStatusInProgress {
		return ErrNotFound
	}
	rec.Status = status
	rec.EndedAt = &endedAt
	rec.DurationSeconds = duration
	rec.FailureReason = reason
	return nil
}

func (m *Memory) UpsertCustomer(ctx context.Context, phoneNumber, name string) (Customer, error) {
	if phoneNumber == "" {
		return Customer{}, ErrInvalidArgument
	}
	if m.FailUpsertCustomer != nil {
		if err := m.FailUpsertCustomer(); err != nil {
			return Customer{}, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Customers[phoneNumber]; ok {
		c.Name = name
		return *c, nil
	}
	c := Customer{ID: uuid.NewString(), PhoneNumber: phoneNumber, Name: name}
	m.Customers[phoneNumber] = &c
	return c, nil
}

func (m *Memory) InsertOrder(ctx context.Context, o Order) (Order, error) {
	if o.RestaurantID == "" || o.CustomerID == "" {
		return Order{}, ErrInvalidArgument
	}
	if m.FailInsertOrder != nil {
		if err := m.FailInsertOrder(); err != nil {
			return Order{}, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	m.Orders = append(m.Orders, o)
	return o, nil
}

func (m *Memory) InsertOrderItems(ctx context.Context, items []OrderItem) error {
	if len(items) == 0 {
		return ErrInvalidArgument
	}
	if m.FailInsertOrderItems != nil {
		if err := m.FailInsertOrderItems(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderItems = append(m.OrderItems, items...)
	return nil
}
