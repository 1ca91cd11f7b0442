package agent

import (
	"context"
	"math"
	"strings"

	"github.com/kilobco/sb-voice-agent/internal/cart"
	"github.com/kilobco/sb-voice-agent/internal/model"
	"github.com/kilobco/sb-voice-agent/internal/store"
	"github.com/kilobco/sb-voice-agent/pkg/utils"
)

// TaxRate is Irvine, CA sales tax applied to the subtotal.
const TaxRate = 0.0825

const orderNumberPrefix = "SB-IRV-"

// OrderJob is one prepared completeOrder attempt. The cart snapshot is taken
// on the session loop in PrepareOrder; Run is safe to execute off-loop, and
// its second return value tells the session whether to empty the cart when
// the result comes back.
type OrderJob struct {
	router *Router
	call   model.FunctionCall
	name   string
	phone  string
	items  []cart.Item
}

// PrepareOrder validates a completeOrder call and snapshots the cart. A nil
// job means the call was answered immediately with the returned response
// (invalid arguments or empty cart).
func (r *Router) PrepareOrder(call model.FunctionCall) (*OrderJob, model.FunctionResponse) {
	args, err := decodeArgs(call.Args)
	if err != nil {
		r.log.Warn("tool args not an object", "tool", call.Name, "err", err)
		return nil, errorResponse(call)
	}

	v := newValidator(r.log, call.Name, args, []string{"customerName", "phoneNumber"})
	name := strings.TrimSpace(v.optionalString("customerName"))
	phone := digitsOnly(v.optionalString("phoneNumber"))
	if !v.ok() {
		return nil, errorResponse(call)
	}

	// Fall back to the collectCustomerDetails stash when arguments are thin.
	if name == "" {
		name = r.details.Name
	}
	if phone == "" {
		phone = r.details.Phone
	}
	if name == "" || phone == "" {
		return nil, errorResponse(call)
	}

	items := r.cart.Items()
	if len(items) == 0 {
		return nil, response(call, map[string]any{"result": msgEmptyCart, "orderId": nil})
	}

	return &OrderJob{router: r, call: call, name: name, phone: phone, items: items}, model.FunctionResponse{}
}

// Run executes the persistence pipeline: customer upsert, order insert,
// items batch, all inside the retry policy. The second return reports
// whether the cart should be cleared.
func (j *OrderJob) Run(ctx context.Context) (model.FunctionResponse, bool) {
	r := j.router

	var subtotal float64
	for _, it := range j.items {
		subtotal += float64(it.Quantity) * it.UnitPrice
	}
	total := Round2(subtotal * (1 + TaxRate))

	var orderID string
	err := utils.Retry(ctx, r.retry, func(ctx context.Context) error {
		customer, err := r.store.UpsertCustomer(ctx, j.phone, j.name)
		if err != nil {
			return err
		}

		order, err := r.store.InsertOrder(ctx, store.Order{
			RestaurantID: r.restaurantID,
			CustomerID:   customer.ID,
			CallSID:      r.callSID,
			Status:       "confirmed",
			TotalAmount:  total,
		})
		if err != nil {
			return err
		}

		rows := make([]store.OrderItem, 0, len(j.items))
		for _, it := range j.items {
			custom := map[string]string{}
			if it.Notes != "" {
				custom["notes"] = it.Notes
			}
			rows = append(rows, store.OrderItem{
				OrderID:        order.ID,
				ItemName:       it.Name,
				Quantity:       it.Quantity,
				UnitPrice:      it.UnitPrice,
				Customizations: custom,
			})
		}
		if err := r.store.InsertOrderItems(ctx, rows); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		// Cart stays resident for a human callback.
		r.log.Error("order persistence exhausted retries", "call_sid", r.callSID, "err", err)
		return response(j.call, map[string]any{"result": msgOrderApology, "orderId": nil}), false
	}

	number := OrderNumber(orderID)
	r.log.Info("order saved",
		"call_sid", r.callSID, "order_id", orderID, "order_number", number,
		"items", len(j.items), "total", total)

	return response(j.call, map[string]any{
		"result":      "Order saved.",
		"orderId":     orderID,
		"orderNumber": number,
		"total":       total,
	}), true
}

// OrderNumber composes the human-readback number from the first six hex
// characters of the order id.
func OrderNumber(orderID string) string {
	var hex []byte
	for i := 0; i < len(orderID) && len(hex) < 6; i++ {
		c := orderID[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			hex = append(hex, c)
		}
	}
	return orderNumberPrefix + strings.ToUpper(string(hex))
}

// Round2 rounds half away from zero at the cent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
