package store

import (
	"context"
	"time"
)

// Gateway is the persistence contract for call and order records.
//
// Contract:
//   - createCall inserts an in_progress row; the id and server start time come
//     back to the caller for later duration math.
//   - The three terminal methods flip the row to exactly one terminal status;
//     a second terminal write reports ErrNotFound (the status guard missed).
//   - UpsertCustomer is keyed by phone number; a conflict updates the name.
//   - InsertOrderItems writes the batch atomically.
type Gateway interface {
	CreateCall(ctx context.Context, callSID, streamSID, callerPhone, restaurantPhone string) (CallRecord, error)
	CompleteCall(ctx context.Context, callSID string, startedAt time.Time) error
	EscalateCall(ctx context.Context, callSID string) error
	FailCall(ctx context.Context, callSID, reason string) error

	UpsertCustomer(ctx context.Context, phoneNumber, name string) (Customer, error)
	InsertOrder(ctx context.Context, o Order) (Order, error)
	InsertOrderItems(ctx context.Context, items []OrderItem) error
}
