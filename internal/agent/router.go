package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/kilobco/sb-voice-agent/internal/cart"
	"github.com/kilobco/sb-voice-agent/internal/menu"
	"github.com/kilobco/sb-voice-agent/internal/model"
	"github.com/kilobco/sb-voice-agent/internal/store"
	"github.com/kilobco/sb-voice-agent/pkg/utils"
)

// Spoken responses. The caller only ever hears these; raw errors stay in the
// logs.
const (
	msgCartUpdated  = "Cart updated successfully."
	msgBriefError   = "Sorry, there was a brief error. Please try again."
	msgEmptyCart    = "Error: cart is empty"
	msgOrderApology = "I'm so sorry, I wasn't able to save your order just now. A team member will call you right back to confirm it."
	msgItemNotFound = "I couldn't find that item on the menu."
	msgDetailsSaved = "Got it, thank you."
)

// CustomerDetails is the in-session stash written by collectCustomerDetails
// and consulted by completeOrder when its own arguments are missing.
type CustomerDetails struct {
	Name  string
	Phone string
}

// Router dispatches model-issued tool calls against one session's cart and
// the persistence gateway. Each router belongs to exactly one session and
// never escapes it; sync dispatch runs on the session loop.
type Router struct {
	cart         *cart.Cart
	store        store.Gateway
	restaurantID string
	callSID      string
	log          *slog.Logger

	retry utils.RetryPolicy

	details CustomerDetails
}

func NewRouter(c *cart.Cart, g store.Gateway, restaurantID, callSID string, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		cart:         c,
		store:        g,
		restaurantID: restaurantID,
		callSID:      callSID,
		log:          log,
		retry: utils.RetryPolicy{
			MaxAttempts: 3,
			Backoff:     time.Second,
		},
	}
}

// Dispatch handles one synchronous tool call. It validates arguments at the
// boundary and never raises into the session loop: anything invalid answers
// with the apology payload.
func (r *Router) Dispatch(ctx context.Context, call model.FunctionCall) model.FunctionResponse {
	args, err := decodeArgs(call.Args)
	if err != nil {
		r.log.Warn("tool args not an object", "tool", call.Name, "err", err)
		return errorResponse(call)
	}

	switch call.Name {
	case toolSearchMenu:
		return r.searchMenu(call, args)
	case toolManageOrder:
		return r.manageOrder(call, args)
	case toolCollectCustomerDetails:
		return r.collectCustomerDetails(call, args)
	default:
		r.log.Warn("unknown tool", "tool", call.Name)
		return errorResponse(call)
	}
}

func (r *Router) searchMenu(call model.FunctionCall, args map[string]any) model.FunctionResponse {
	v := newValidator(r.log, call.Name, args, []string{"query"})
	query := v.requireString("query")
	if !v.ok() {
		return errorResponse(call)
	}

	it, found := menu.Search(query)
	if !found {
		return response(call, map[string]any{"result": msgItemNotFound})
	}
	return response(call, map[string]any{"itemName": it.Name, "price": it.Price})
}

func (r *Router) manageOrder(call model.FunctionCall, args map[string]any) model.FunctionResponse {
	v := newValidator(r.log, call.Name, args, []string{"action", "itemName", "quantity", "price", "notes"})
	action := v.requireString("action")
	itemName := v.requireString("itemName")
	qty := v.requireInt("quantity")
	price := v.requireNumber("price")
	notes := v.optionalString("notes")
	if !v.ok() || (action != "add" && action != "remove") || qty < 1 || price < 0 {
		return errorResponse(call)
	}

	switch action {
	case "add":
		r.cart.Add(itemName, qty, price, notes)
	case "remove":
		r.cart.Remove(itemName)
	}
	r.log.Info("cart updated",
		"call_sid", r.callSID, "action", action, "item", itemName,
		"items", r.cart.ItemCount(), "subtotal", r.cart.Subtotal())
	return response(call, map[string]any{"result": msgCartUpdated})
}

func (r *Router) collectCustomerDetails(call model.FunctionCall, args map[string]any) model.FunctionResponse {
	v := newValidator(r.log, call.Name, args, []string{"customerName", "phoneNumber"})
	name := v.requireString("customerName")
	phone := v.requireString("phoneNumber")
	if !v.ok() {
		return errorResponse(call)
	}
	digits := digitsOnly(phone)
	if len(digits) < 10 || len(digits) > 11 {
		return errorResponse(call)
	}

	r.details = CustomerDetails{Name: strings.TrimSpace(name), Phone: digits}
	return response(call, map[string]any{"result": msgDetailsSaved})
}

func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

func response(call model.FunctionCall, payload map[string]any) model.FunctionResponse {
	return model.FunctionResponse{ID: call.ID, Name: call.Name, Response: payload}
}

func errorResponse(call model.FunctionCall) model.FunctionResponse {
	return response(call, map[string]any{"result": msgBriefError})
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
