// Package cart holds the storefront cart: an ordered list of rental, purchase
// and quote lines owned by one client session and persisted to a key-value
// slot between requests.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
)

// Line is one entry of the cart. UnitPrice is captured when the line is added
// and is nil for quote lines.
type Line struct {
	ItemID    uuid.UUID        `json:"itemId"`
	ItemName  string           `json:"itemName"`
	Kind      enums.LineKind   `json:"variantKind"`
	Color     string           `json:"color"`
	Size      string           `json:"size,omitempty"`
	Quantity  int              `json:"quantity"`
	StartDate *time.Time       `json:"startDate,omitempty"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	AddedAt   time.Time        `json:"addedAt"`
}

// Key identifies lines that merge into one another.
type Key struct {
	ItemID uuid.UUID
	Kind   enums.LineKind
	Color  string
	Size   string
}

// Key returns the merge key of the line.
func (l Line) Key() Key {
	return Key{ItemID: l.ItemID, Kind: l.Kind, Color: l.Color, Size: l.Size}
}

// Subtotal is unitPrice*quantity for priced lines and zero otherwise.
func (l Line) Subtotal() decimal.Decimal {
	if !l.Kind.Priced() || l.UnitPrice == nil {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the in-memory cart of one session. Mutations only touch memory;
// Save writes the current list to the backing store.
type Cart struct {
	session string
	store   Store
	items   []Line
}

// New returns an empty cart for session.
func New(session string, store Store) *Cart {
	return &Cart{session: session, store: store, items: []Line{}}
}

// Load reads the persisted lines of session. A session without a slot yields
// an empty cart.
func Load(ctx context.Context, store Store, session string) (*Cart, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	items, err := store.Read(ctx, session)
	if err != nil {
		return nil, err
	}
	c := New(session, store)
	if items != nil {
		c.items = items
	}
	return c, nil
}

// Save persists the current line list, including an empty one.
func (c *Cart) Save(ctx context.Context) error {
	if c.store == nil {
		return fmt.Errorf("cart store required")
	}
	return c.store.Write(ctx, c.session, c.items)
}

// Session returns the owning session id.
func (c *Cart) Session() string {
	return c.session
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Line {
	out := make([]Line, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Find returns the line stored under key.
func (c *Cart) Find(key Key) (Line, bool) {
	for _, item := range c.items {
		if item.Key() == key {
			return item, true
		}
	}
	return Line{}, false
}

// AddItem merges line into an existing line with the same key, summing
// quantities and keeping the existing unit price, or appends it. It reports
// whether a merge happened.
func (c *Cart) AddItem(line Line) bool {
	key := line.Key()
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity += line.Quantity
			return true
		}
	}
	c.items = append(c.items, line)
	return false
}

// RemoveItem drops every line matching key and returns how many were removed.
func (c *Cart) RemoveItem(key Key) int {
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if item.Key() == key {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	return removed
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = []Line{}
}

// Total sums the priced lines without intermediate rounding.
func (c *Cart) Total() decimal.Decimal {
	return Total(c.items)
}

// IsQuoteOnly reports whether the cart is non-empty and holds only quote lines.
func (c *Cart) IsQuoteOnly() bool {
	if len(c.items) == 0 {
		return false
	}
	for _, item := range c.items {
		if item.Kind != enums.LineKindQuote {
			return false
		}
	}
	return true
}

// HasRentals reports whether any line is a rental.
func (c *Cart) HasRentals() bool {
	for _, item := range c.items {
		if item.Kind == enums.LineKindRental {
			return true
		}
	}
	return false
}

// Total sums unitPrice*quantity over rental and purchase lines.
func Total(items []Line) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// RoundForDisplay rounds an amount to cents for presentation.
func RoundForDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
