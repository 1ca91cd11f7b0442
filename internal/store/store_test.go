package store

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMemoryTerminalOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec, err := m.CreateCall(ctx, "CA1", "MZ1", "+15551234567", "+19491112222")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := m.CompleteCall(ctx, "CA1", rec.StartedAt); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := m.EscalateCall(ctx, "CA1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second terminal, got %v", err)
	}
	if m.Calls["CA1"].Status != CallStatusCompleted {
		t.Fatalf("expected completed, got %s", m.Calls["CA1"].Status)
	}
}

func TestMemoryCompleteCallDuration(t *testing.T) {
	m := NewMemory()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.Clock = func() time.Time { return base }
	ctx := context.Background()

	rec, err := m.CreateCall(ctx, "CA2", "MZ2", "a", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	m.Clock = func() time.Time { return base.Add(95 * time.Second) }
	if err := m.CompleteCall(ctx, "CA2", rec.StartedAt); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := m.Calls["CA2"].DurationSeconds; got != 95 {
		t.Fatalf("expected 95s, got %d", got)
	}
}

func TestMemoryCreateCallRequiresIDs(t *testing.T) {
	m := NewMemory()
	if _, err := m.CreateCall(context.Background(), "", "MZ", "a", "b"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMemoryUpsertCustomer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.UpsertCustomer(ctx, "5551234567", "Ada")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := m.UpsertCustomer(ctx, "5551234567", "Ada L")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same customer id on conflict")
	}
	if m.Customers["5551234567"].Name != "Ada L" {
		t.Fatalf("expected name updated")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{&pgconn.PgError{Code: "23505"}, ErrConflict},
		{&pgconn.PgError{Code: "08006"}, ErrTransient},
		{&pgconn.PgError{Code: "57014"}, ErrTransient},
		{&pgconn.PgError{Code: "42P01"}, ErrPermanent},
		{&net.OpError{Op: "dial", Err: errors.New("refused")}, ErrTransient},
		{context.DeadlineExceeded, ErrTransient},
	}
	for _, c := range cases {
		got := classify(c.in)
		if !errors.Is(got, c.want) {
			t.Fatalf("classify(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
	if classify(nil) != nil {
		t.Fatalf("expected nil for nil")
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", Message: "dup"}
	got := classify(cause)
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) {
		t.Fatalf("expected cause preserved")
	}
}
