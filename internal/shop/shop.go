// Package shop is the transaction orchestrator: the single command surface
// the UI talks to. Every command validates against the player state and the
// engines, mutates under one lock, and publishes events; checkpoints
// (explicit save, day end) persist the state durably.
package shop

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/clock"
	"github.com/velobay/shopsim/internal/customer"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/inventory"
	"github.com/velobay/shopsim/internal/repair"
	"github.com/velobay/shopsim/internal/save"
	"github.com/velobay/shopsim/internal/state"
)

// Config tunes a Shop at construction.
type Config struct {
	Capacity int              // inventory ceiling; 0 means the default
	Seed     int64            // customer generation seed
	Weights  customer.Weights // customer type mix; zero value means defaults
}

// Shop composes the engines around one player state. All commands are
// serialized behind one mutex, so no operation ever observes a partial
// mutation.
type Shop struct {
	mu sync.Mutex

	cat       *catalog.Catalog
	player    *state.PlayerState
	inv       *inventory.Engine
	customers *customer.Generator
	repairs   *repair.Service
	store     *save.Store // nil disables persistence
	bus       *events.Bus
	clk       clock.Clock
}

// New builds a shop bundle with explicit dependencies. store may be nil for
// an ephemeral (unsaved) session.
func New(cat *catalog.Catalog, store *save.Store, bus *events.Bus, clk clock.Clock, cfg Config) *Shop {
	if clk == nil {
		clk = clock.System{}
	}
	if bus == nil {
		bus = events.NewBus(clk)
	}
	player := state.New(catalog.DefaultBrand)
	return &Shop{
		cat:       cat,
		player:    player,
		inv:       inventory.NewEngine(cat, player, bus, cfg.Capacity),
		customers: customer.NewGenerator(cat, player, bus, cfg.Seed, cfg.Weights),
		repairs:   repair.NewService(player, bus, clk),
		store:     store,
		bus:       bus,
		clk:       clk,
	}
}

// Bus returns the event bus for subscribers (the websocket relay).
func (s *Shop) Bus() *events.Bus { return s.bus }

// Catalog returns the read-only merchandise catalog.
func (s *Shop) Catalog() *catalog.Catalog { return s.cat }

// State returns a snapshot copy of the player state.
func (s *Shop) State() state.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := *s.player
	if s.player.Team != nil {
		team := *s.player.Team
		snap.Team = &team
	}
	return snap
}

// Purchase restocks quantity units of a catalog item at unitPrice each.
func (s *Shop) Purchase(itemID string, quantity, unitPrice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Purchase(itemID, quantity, unitPrice)
}

// Sell moves quantity units over the counter at sellPrice each.
func (s *Shop) Sell(itemID string, quantity, sellPrice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Sell(itemID, quantity, sellPrice)
}

// ClearStagnant liquidates a stagnant record at a discount.
func (s *Shop) ClearStagnant(itemID string, discount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.ClearStagnant(itemID, discount)
}

// InventoryReport returns the read-only inventory aggregate.
func (s *Shop) InventoryReport() inventory.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.ReportNow()
}

// InventoryRecords returns copies of all stock records.
func (s *Shop) InventoryRecords() []inventory.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Records()
}

// GenerateCustomer brings a new customer through the door.
func (s *Shop) GenerateCustomer() customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.customers.Generate()
}

// Customers returns copies of the active customers in arrival order.
func (s *Shop) Customers() []customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.customers.Active()
	out := make([]customer.Customer, len(active))
	for i, c := range active {
		out[i] = *c
	}
	return out
}

// Recommend pitches a catalog item to an active customer.
func (s *Shop) Recommend(customerID, itemID string) (customer.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.Get(customerID)
	if !ok {
		return customer.Recommendation{}, fmt.Errorf("recommend: %q: %w", customerID, customer.ErrUnknownCustomer)
	}
	item := s.cat.ItemByID(itemID)
	if item == nil {
		return customer.Recommendation{}, fmt.Errorf("recommend: %q: %w", itemID, inventory.ErrUnknownItem)
	}
	return s.customers.Recommend(c, item), nil
}

// InteractCustomer advances a customer's conversation state.
func (s *Shop) InteractCustomer(customerID, choice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.Get(customerID)
	if !ok {
		return fmt.Errorf("interact: %q: %w", customerID, customer.ErrUnknownCustomer)
	}
	s.customers.Interact(c, choice)
	return nil
}

// BeginPurchase moves a deciding customer to the register.
func (s *Shop) BeginPurchase(customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.Get(customerID)
	if !ok {
		return fmt.Errorf("begin purchase: %q: %w", customerID, customer.ErrUnknownCustomer)
	}
	return s.customers.BeginPurchase(c)
}

// CompleteTransaction sells an inventory item to a purchasing customer and
// closes out their visit. The sale and the customer-side effects happen
// under one lock hold, so the mutation is atomic from any observer's view.
func (s *Shop) CompleteTransaction(customerID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.Get(customerID)
	if !ok {
		return fmt.Errorf("complete transaction: %q: %w", customerID, customer.ErrUnknownCustomer)
	}
	if c.State != customer.StatePurchasing {
		return fmt.Errorf("complete transaction: customer %s is %s: %w", customerID, c.State, customer.ErrCustomerState)
	}
	item := s.cat.ItemByID(itemID)
	if item == nil {
		return fmt.Errorf("complete transaction: %q: %w", itemID, inventory.ErrUnknownItem)
	}

	if err := s.inv.Sell(itemID, 1, item.SellPrice); err != nil {
		return err
	}
	return s.customers.CompleteTransaction(c)
}

// AbandonCustomer lets a customer leave unsatisfied.
func (s *Shop) AbandonCustomer(customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.Get(customerID)
	if !ok {
		return fmt.Errorf("abandon: %q: %w", customerID, customer.ErrUnknownCustomer)
	}
	s.customers.Abandon(c)
	return nil
}

// CreateRepairJob opens a work order, optionally tied to an active customer.
func (s *Shop) CreateRepairJob(t repair.Type, customerID string) (repair.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customerID != "" {
		if _, ok := s.customers.Get(customerID); !ok {
			return repair.Job{}, fmt.Errorf("create repair job: %q: %w", customerID, customer.ErrUnknownCustomer)
		}
	}
	return *s.repairs.CreateJob(t, customerID), nil
}

// ExecuteRepair performs a pending job and credits the proceeds.
func (s *Shop) ExecuteRepair(jobID string) (repair.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repairs.Execute(jobID)
}

// CancelRepair closes an unexecuted job.
func (s *Shop) CancelRepair(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repairs.Cancel(jobID)
}

// RepairJobs returns copies of all work orders, oldest first.
func (s *Shop) RepairJobs() []repair.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repairs.Jobs()
}

// Save checkpoints the player state to the primary slot.
func (s *Shop) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Shop) save() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(s.player); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	s.bus.Publish(events.TypeGameSaved, events.GameSaved{Day: s.player.Day})
	return nil
}

// Load replaces the in-memory player state with the persisted one. When no
// usable slot exists the state resets to defaults and OK is false; the
// session stays playable either way.
func (s *Shop) Load() (save.LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return save.LoadResult{OK: false, Player: s.player, ErrorMessage: "persistence disabled"}, nil
	}
	res, err := s.store.Load()
	if err != nil {
		return res, err
	}

	*s.player = *res.Player
	res.Player = s.player
	s.bus.Publish(events.TypeGameLoaded, events.GameLoaded{RestoredFromBackup: res.RestoredFromBackup})
	s.bus.Publish(events.TypeMoneyChanged, events.MoneyChanged{Money: s.player.Money})
	s.bus.Publish(events.TypeReputationChanged, events.ReputationChanged{Reputation: s.player.Reputation})
	return res, nil
}

// NewGame resets the session to starting values. The save slots are left on
// disk until the next checkpoint overwrites them.
func (s *Shop) NewGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	*s.player = *state.New(catalog.DefaultBrand)
	s.inv.Reset()
	s.customers.Reset()
	s.repairs.Reset()

	s.bus.Publish(events.TypeMoneyChanged, events.MoneyChanged{Money: s.player.Money})
	s.bus.Publish(events.TypeReputationChanged, events.ReputationChanged{Reputation: s.player.Reputation})
}

// DeleteSave removes both save slots from disk.
func (s *Shop) DeleteSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		s.store.Delete()
	}
}

// HasValidSave reports whether a saved session can be restored.
func (s *Shop) HasValidSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store != nil && s.store.HasValidSave()
}

// AdvanceDay closes out the simulated day: stock ages one day, stagnant
// records raise warnings, the daily report is logged, and the state is
// checkpointed.
func (s *Shop) AdvanceDay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.Day++
	s.inv.AdvanceDay()

	stagnant := s.inv.StagnantRecords()
	for _, r := range stagnant {
		name := r.ItemID
		if item := s.cat.ItemByID(r.ItemID); item != nil {
			name = item.Name
		}
		s.bus.Publish(events.TypeStagnantWarning, events.StagnantWarning{
			Message: fmt.Sprintf("%s has sat unsold for %d days", name, r.DaysInStock),
		})
	}

	rep := s.inv.ReportNow()
	slog.Info("daily report",
		"day", s.player.Day,
		"money", humanize.Comma(int64(s.player.Money)),
		"reputation", s.player.Reputation,
		"stock_units", rep.TotalItems,
		"stock_value", humanize.Comma(int64(rep.TotalValue)),
		"stagnant", len(stagnant),
		"customers_in_shop", s.customers.Count(),
	)

	s.bus.Publish(events.TypeDayAdvanced, events.DayAdvanced{Day: s.player.Day})
	return s.save()
}
