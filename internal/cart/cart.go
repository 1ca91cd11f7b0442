package cart

import (
	"log/slog"

	"github.com/kilobco/sb-voice-agent/internal/menu"
)

// Cart holds the session-local order state. It is owned by a single session
// loop and mutated only there, so it carries no lock.
//
// Price authority: the menu table wins over whatever price the model supplied
// with the tool call. A miss falls back to the model price and is logged,
// since the model is free to hallucinate both names and numbers.

type Item struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Notes     string
}

type Cart struct {
	items []Item
	log   *slog.Logger
}

func New(log *slog.Logger) *Cart {
	if log == nil {
		log = slog.Default()
	}
	return &Cart{log: log}
}

// Add inserts an item, or replaces quantity/price/notes when an item with the
// same name is already present. Callers restate quantities naturally ("make
// that three"), so replacement beats accumulation here. Notes are only
// replaced when the new ones are non-empty.
func (c *Cart) Add(name string, qty int, modelPrice float64, notes string) string {
	price, ok := menu.Price(name)
	if !ok {
		price = modelPrice
		c.log.Warn("price_map_miss", "item", name, "model_price", modelPrice)
	}

	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].Quantity = qty
			c.items[i].UnitPrice = price
			if notes != "" {
				c.items[i].Notes = notes
			}
			return "updated"
		}
	}

	c.items = append(c.items, Item{Name: name, Quantity: qty, UnitPrice: price, Notes: notes})
	return "added"
}

// Remove drops every entry whose name equals name.
func (c *Cart) Remove(name string) string {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.Name != name {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return "removed"
}

// Items returns a copy of the current entries.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.items {
		sum += float64(it.Quantity) * it.UnitPrice
	}
	return sum
}

func (c *Cart) ItemCount() int {
	return len(c.items)
}

func (c *Cart) Clear() {
	c.items = nil
}
