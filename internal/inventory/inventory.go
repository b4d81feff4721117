// Package inventory enforces stock capacity and tracks the lifecycle of
// every purchased item, including stagnation and discounted liquidation.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/state"
)

// Validation failures. No state is mutated when one of these is returned.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCapacityExceeded  = errors.New("inventory capacity exceeded")
	ErrBrandLocked       = errors.New("brand not unlocked")
	ErrNotFound          = errors.New("item not in inventory")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotStagnant       = errors.New("item is not stagnant")
	ErrUnknownItem       = errors.New("unknown catalog item")
)

const (
	// StagnantAfterDays is the shelf age beyond which stock counts as
	// stagnant and becomes eligible for discounted liquidation.
	StagnantAfterDays = 30

	// DefaultCapacity is the starting stockroom ceiling.
	DefaultCapacity = 50

	// DefaultClearDiscount is the liquidation price factor.
	DefaultClearDiscount = 0.5
)

// Record is one held item: quantity on hand plus acquisition bookkeeping.
type Record struct {
	ItemID      string    `json:"item_id"`
	Quantity    int       `json:"quantity"`
	DaysInStock int       `json:"days_in_stock"`
	AcquiredAt  time.Time `json:"acquired_at"`
	UnitCost    int       `json:"unit_cost"` // most recent acquisition price
}

// Stagnant reports whether the record has sat unsold for too long.
func (r Record) Stagnant() bool {
	return r.DaysInStock > StagnantAfterDays
}

// Report is the read-only inventory aggregate for display.
type Report struct {
	TotalItems   int                      `json:"total_items"`
	TotalValue   int                      `json:"total_value"` // at acquisition cost
	Stagnant     []Record                 `json:"stagnant"`
	CountsByType map[catalog.ItemType]int `json:"counts_by_type"`
}

// Engine owns the inventory collection. It is not internally locked; the
// orchestrator serializes access along with all other state mutation.
type Engine struct {
	cat    *catalog.Catalog
	player *state.PlayerState
	bus    *events.Bus

	records  map[string]*Record
	capacity int
	used     int
}

// NewEngine creates an inventory engine bound to a catalog and player state.
func NewEngine(cat *catalog.Catalog, player *state.PlayerState, bus *events.Bus, capacity int) *Engine {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Engine{
		cat:      cat,
		player:   player,
		bus:      bus,
		records:  make(map[string]*Record),
		capacity: capacity,
	}
}

// CanAdd reports whether quantity more units fit under the capacity ceiling.
func (e *Engine) CanAdd(quantity int) bool {
	return e.used+quantity <= e.capacity
}

// Capacity returns the stockroom ceiling.
func (e *Engine) Capacity() int { return e.capacity }

// UsedCapacity returns the sum of all held quantities.
func (e *Engine) UsedCapacity() int { return e.used }

// Get returns a copy of the record for an item, if held.
func (e *Engine) Get(itemID string) (Record, bool) {
	r, ok := e.records[itemID]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Records returns copies of all records sorted by item id.
func (e *Engine) Records() []Record {
	out := make([]Record, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Purchase buys quantity units of a catalog item at unitPrice each. It
// validates funds, capacity, and brand authorization before mutating
// anything; on success it debits the player and merges the stock record,
// overwriting the stored acquisition price with the newest one.
func (e *Engine) Purchase(itemID string, quantity, unitPrice int) error {
	if quantity <= 0 {
		return fmt.Errorf("purchase %q: quantity must be positive", itemID)
	}
	item := e.cat.ItemByID(itemID)
	if item == nil {
		return fmt.Errorf("purchase %q: %w", itemID, ErrUnknownItem)
	}

	total := unitPrice * quantity
	if e.player.Money < total {
		shortfall := total - e.player.Money
		e.bus.Publish(events.TypeMoneyInsufficient, events.MoneyInsufficient{Shortfall: shortfall})
		e.bus.Publish(events.TypeStockWarning, events.StockWarning{
			Message: fmt.Sprintf("not enough money to restock %s", item.Name),
		})
		return fmt.Errorf("purchase %q: %w", itemID, ErrInsufficientFunds)
	}
	if !e.CanAdd(quantity) {
		e.bus.Publish(events.TypeStockWarning, events.StockWarning{
			Message: "stockroom is full, clear inventory first",
		})
		return fmt.Errorf("purchase %q: %w", itemID, ErrCapacityExceeded)
	}
	if item.RequiredBrandUnlock != "" && !e.player.BrandUnlocked(item.RequiredBrandUnlock) {
		e.bus.Publish(events.TypeStockWarning, events.StockWarning{
			Message: fmt.Sprintf("no authorization for brand %s yet", item.RequiredBrandUnlock),
		})
		return fmt.Errorf("purchase %q: %w", itemID, ErrBrandLocked)
	}

	e.player.AddMoney(-total)
	e.bus.Publish(events.TypeMoneyChanged, events.MoneyChanged{Money: e.player.Money})

	if rec, ok := e.records[itemID]; ok {
		rec.Quantity += quantity
		rec.UnitCost = unitPrice // last price wins
		e.used += quantity
		e.bus.Publish(events.TypeItemChanged, events.ItemChanged{ItemID: itemID, Quantity: rec.Quantity})
		return nil
	}

	e.records[itemID] = &Record{
		ItemID:     itemID,
		Quantity:   quantity,
		AcquiredAt: e.bus.At(),
		UnitCost:   unitPrice,
	}
	e.used += quantity
	e.bus.Publish(events.TypeItemAdded, events.ItemAdded{ItemID: itemID, Quantity: quantity})
	return nil
}

// Sell removes quantity units at sellPrice each, credits the player, and
// awards tier-based reputation. The record is dropped when it hits zero.
func (e *Engine) Sell(itemID string, quantity, sellPrice int) error {
	if quantity <= 0 {
		return fmt.Errorf("sell %q: quantity must be positive", itemID)
	}
	rec, ok := e.records[itemID]
	if !ok {
		return fmt.Errorf("sell %q: %w", itemID, ErrNotFound)
	}
	if rec.Quantity < quantity {
		return fmt.Errorf("sell %q: have %d want %d: %w", itemID, rec.Quantity, quantity, ErrInsufficientStock)
	}

	rec.Quantity -= quantity
	e.used -= quantity
	if rec.Quantity == 0 {
		delete(e.records, itemID)
		e.bus.Publish(events.TypeItemRemoved, events.ItemRemoved{ItemID: itemID})
	} else {
		e.bus.Publish(events.TypeItemChanged, events.ItemChanged{ItemID: itemID, Quantity: rec.Quantity})
	}

	e.player.AddMoney(sellPrice * quantity)
	e.bus.Publish(events.TypeMoneyChanged, events.MoneyChanged{Money: e.player.Money})

	if item := e.cat.ItemByID(itemID); item != nil {
		gain := item.Tier.ReputationGain()
		e.player.AddReputation(gain)
		e.bus.Publish(events.TypeReputationChanged, events.ReputationChanged{Reputation: e.player.Reputation})
	}

	e.bus.Publish(events.TypeItemSold, events.ItemSold{ItemID: itemID, Quantity: quantity, UnitPrice: sellPrice})
	return nil
}

// ClearStagnant liquidates the full remaining quantity of a stagnant item at
// a discounted price (integer-truncated). Normal sell validation is
// bypassed; liquidation always moves the whole record.
func (e *Engine) ClearStagnant(itemID string, discount float64) error {
	if discount <= 0 {
		discount = DefaultClearDiscount
	}
	rec, ok := e.records[itemID]
	if !ok {
		return fmt.Errorf("clear %q: %w", itemID, ErrNotFound)
	}
	if !rec.Stagnant() {
		return fmt.Errorf("clear %q: %w", itemID, ErrNotStagnant)
	}
	item := e.cat.ItemByID(itemID)
	if item == nil {
		return fmt.Errorf("clear %q: %w", itemID, ErrUnknownItem)
	}

	discounted := int(float64(item.SellPrice) * discount)
	if err := e.Sell(itemID, rec.Quantity, discounted); err != nil {
		return fmt.Errorf("clear %q: %w", itemID, err)
	}
	e.bus.Publish(events.TypeStagnantWarning, events.StagnantWarning{
		Message: fmt.Sprintf("cleared stagnant stock: %s", item.Name),
	})
	return nil
}

// AdvanceDay ages every record by one shelf day. Called once per sim day.
func (e *Engine) AdvanceDay() {
	for _, r := range e.records {
		r.DaysInStock++
	}
}

// StagnantRecords returns copies of all stagnant records sorted by item id.
func (e *Engine) StagnantRecords() []Record {
	var out []Record
	for _, r := range e.records {
		if r.Stagnant() {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// ReportNow builds the read-only inventory aggregate.
func (e *Engine) ReportNow() Report {
	rep := Report{
		TotalItems:   e.used,
		Stagnant:     e.StagnantRecords(),
		CountsByType: make(map[catalog.ItemType]int),
	}
	for _, r := range e.records {
		rep.TotalValue += r.UnitCost * r.Quantity
		if item := e.cat.ItemByID(r.ItemID); item != nil {
			rep.CountsByType[item.Type] += r.Quantity
		}
	}
	return rep
}

// Reset drops all stock. Used on new game.
func (e *Engine) Reset() {
	e.records = make(map[string]*Record)
	e.used = 0
}
