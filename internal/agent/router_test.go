package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kilobco/sb-voice-agent/internal/cart"
	"github.com/kilobco/sb-voice-agent/internal/model"
	"github.com/kilobco/sb-voice-agent/internal/store"
)

func testRouter(g store.Gateway) *Router {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(cart.New(log), g, "rest-1", "CA1", log)
	r.retry.Sleep = func(time.Duration) {}
	return r
}

func call(name, args string) model.FunctionCall {
	return model.FunctionCall{ID: "c1", Name: name, Args: json.RawMessage(args)}
}

func TestManageOrderAdd(t *testing.T) {
	r := testRouter(store.NewMemory())

	resp := r.Dispatch(context.Background(), call(toolManageOrder,
		`{"action":"add","itemName":"Masala Dosa","quantity":2,"price":9.99}`))
	if resp.Response["result"] != msgCartUpdated {
		t.Fatalf("unexpected response %+v", resp.Response)
	}

	items := r.cart.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", items)
	}
	// The menu wins over the model-supplied price.
	if items[0].UnitPrice != 11.49 {
		t.Fatalf("expected 11.49, got %v", items[0].UnitPrice)
	}
}

func TestManageOrderRemove(t *testing.T) {
	r := testRouter(store.NewMemory())
	r.Dispatch(context.Background(), call(toolManageOrder,
		`{"action":"add","itemName":"Plain Dosa","quantity":1,"price":9.99}`))
	r.Dispatch(context.Background(), call(toolManageOrder,
		`{"action":"remove","itemName":"Plain Dosa","quantity":1,"price":0}`))
	if r.cart.ItemCount() != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestManageOrderInvalidArgs(t *testing.T) {
	r := testRouter(store.NewMemory())

	cases := []string{
		`{"action":"add","itemName":"Plain Dosa","price":9.99}`,            // missing quantity
		`{"action":"add","itemName":"Plain Dosa","quantity":0,"price":1}`,  // quantity < 1
		`{"action":"add","itemName":"Plain Dosa","quantity":1,"price":-1}`, // negative price
		`{"action":"eat","itemName":"Plain Dosa","quantity":1,"price":1}`,  // unknown action
		`{"action":"add","itemName":"Plain Dosa","quantity":1.5,"price":1}`,
		`not json`,
	}
	for _, args := range cases {
		resp := r.Dispatch(context.Background(), call(toolManageOrder, args))
		if resp.Response["result"] != msgBriefError {
			t.Fatalf("args %s: expected apology payload, got %+v", args, resp.Response)
		}
	}
	if r.cart.ItemCount() != 0 {
		t.Fatalf("invalid calls must not touch the cart")
	}
}

func TestManageOrderToleratesUnknownFields(t *testing.T) {
	r := testRouter(store.NewMemory())
	resp := r.Dispatch(context.Background(), call(toolManageOrder,
		`{"action":"add","itemName":"Plain Dosa","quantity":1,"price":9.99,"extra":"x"}`))
	if resp.Response["result"] != msgCartUpdated {
		t.Fatalf("unknown fields must be tolerated, got %+v", resp.Response)
	}
}

func TestSearchMenu(t *testing.T) {
	r := testRouter(store.NewMemory())

	resp := r.Dispatch(context.Background(), call(toolSearchMenu, `{"query":"masala dosa"}`))
	if resp.Response["itemName"] != "Masala Dosa" || resp.Response["price"] != 11.49 {
		t.Fatalf("unexpected response %+v", resp.Response)
	}

	resp = r.Dispatch(context.Background(), call(toolSearchMenu, `{"query":"pepperoni pizza"}`))
	if resp.Response["result"] != msgItemNotFound {
		t.Fatalf("expected not-found, got %+v", resp.Response)
	}
}

func TestCollectCustomerDetails(t *testing.T) {
	r := testRouter(store.NewMemory())

	resp := r.Dispatch(context.Background(), call(toolCollectCustomerDetails,
		`{"customerName":"Ada","phoneNumber":"(555) 123-4567 x"}`))
	if resp.Response["result"] != msgDetailsSaved {
		t.Fatalf("unexpected response %+v", resp.Response)
	}
	if r.details.Phone != "5551234567" || r.details.Name != "Ada" {
		t.Fatalf("unexpected stash %+v", r.details)
	}

	resp = r.Dispatch(context.Background(), call(toolCollectCustomerDetails,
		`{"customerName":"Ada","phoneNumber":"123"}`))
	if resp.Response["result"] != msgBriefError {
		t.Fatalf("expected rejection for short phone, got %+v", resp.Response)
	}
}

func TestUnknownToolName(t *testing.T) {
	r := testRouter(store.NewMemory())
	resp := r.Dispatch(context.Background(), call("launchMissiles", `{}`))
	if resp.Response["result"] != msgBriefError {
		t.Fatalf("expected apology payload, got %+v", resp.Response)
	}
	if resp.ID != "c1" || resp.Name != "launchMissiles" {
		t.Fatalf("response must echo id and name, got %+v", resp)
	}
}
