package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PostgresGateway implements Gateway over database/sql with the pgx driver.
//
// Row ids are generated client-side (uuid) so the order number can be
// composed without a round trip ordering dependency.
type PostgresGateway struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresGateway(db *sql.DB) *PostgresGateway {
	return &PostgresGateway{db: db, clock: time.Now}
}

func (g *PostgresGateway) CreateCall(ctx context.Context, callSID, streamSID, callerPhone, restaurantPhone string) (CallRecord, error) {
	if callSID == "" || streamSID == "" {
		return CallRecord{}, ErrInvalidArgument
	}
	rec := CallRecord{
		ID:              uuid.NewString(),
		CallSID:         callSID,
		StreamSID:       streamSID,
		CallerPhone:     callerPhone,
		RestaurantPhone: restaurantPhone,
		Status:          CallStatusInProgress,
		StartedAt:       g.clock().UTC(),
	}
	const q = `
		INSERT INTO calls (id, call_sid, stream_sid, caller_phone, restaurant_phone, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := g.db.ExecContext(ctx, q,
		rec.ID, rec.CallSID, rec.StreamSID, rec.CallerPhone, rec.RestaurantPhone, rec.Status, rec.StartedAt,
	); err != nil {
		return CallRecord{}, classify(err)
	}
	return rec, nil
}

func (g *PostgresGateway) CompleteCall(ctx context.Context, callSID string, startedAt time.Time) error {
	now := g.clock().UTC()
	duration := int(now.Sub(startedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	return g.terminal(ctx, callSID, CallStatusCompleted, now, duration, "")
}

func (g *PostgresGateway) EscalateCall(ctx context.Context, callSID string) error {
	return g.terminal(ctx, callSID, CallStatusEscalated, g.clock().UTC(), 0, "")
}

func (g *PostgresGateway) FailCall(ctx context.Context, callSID, reason string) error {
	return g.terminal(ctx, callSID, CallStatusFailed, g.clock().UTC(), 0, reason)
}

// terminal flips an in_progress row to its terminal status. The status guard
// in the WHERE clause makes the transition single-shot.
func (g *PostgresGateway) terminal(ctx context.Context, callSID string, status CallStatus, endedAt time.Time, duration int, reason string) error {
	if callSID == "" {
		return ErrInvalidArgument
	}
	const q = `
		UPDATE calls
		SET status = $2, ended_at = $3, duration_seconds = $4, failure_reason = NULLIF($5, '')
		WHERE call_sid = $1 AND status = 'in_progress'`
	res, err := g.db.ExecContext(ctx, q, callSID, status, endedAt, duration, reason)
	if err != nil {
		return classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *PostgresGateway) UpsertCustomer(ctx context.Context, phoneNumber, name string) (Customer, error) {
	if phoneNumber == "" {
		return Customer{}, ErrInvalidArgument
	}
	const q = `
		INSERT INTO customers (id, phone_number, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone_number) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	c := Customer{PhoneNumber: phoneNumber, Name: name}
	if err := g.db.QueryRowContext(ctx, q, uuid.NewString(), phoneNumber, name).Scan(&c.ID); err != nil {
		return Customer{}, classify(err)
	}
	return c, nil
}

func (g *PostgresGateway) InsertOrder(ctx context.Context, o Order) (Order, error) {
	if o.RestaurantID == "" || o.CustomerID == "" {
		return Order{}, ErrInvalidArgument
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO orders (id, restaurant_id, customer_id, call_sid, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := g.db.ExecContext(ctx, q,
		o.ID, o.RestaurantID, o.CustomerID, o.CallSID, o.Status, o.TotalAmount,
	); err != nil {
		return Order{}, classify(err)
	}
	return o, nil
}

func (g *PostgresGateway) InsertOrderItems(ctx context.Context, items []OrderItem) error {
	if len(items) == 0 {
		return ErrInvalidArgument
	}
	const q = `
		INSERT INTO order_items (order_id, item_name, quantity, unit_price, customizations)
		VALUES ($1, $2, $3, $4, $5)`
	err := withTx(ctx, g.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, it := range items {
			custom := it.Customizations
			if custom == nil {
				custom = map[string]string{}
			}
			raw, err := json.Marshal(custom)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, it.OrderID, it.ItemName, it.Quantity, it.UnitPrice, raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}
	return nil
}
