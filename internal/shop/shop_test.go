package shop

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/clock"
	"github.com/velobay/shopsim/internal/customer"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/inventory"
	"github.com/velobay/shopsim/internal/repair"
	"github.com/velobay/shopsim/internal/save"
	"github.com/velobay/shopsim/internal/state"
)

func newTestShop(t *testing.T, withStore bool) (*Shop, *events.Bus) {
	t.Helper()
	clk := clock.Fixed{T: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	bus := events.NewBus(clk)

	var store *save.Store
	if withStore {
		var err error
		store, err = save.Open(filepath.Join(t.TempDir(), "save.db"), clk)
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}

	sh := New(catalog.Default(), store, bus, clk, Config{
		Seed:    1,
		Weights: customer.Weights{Student: 100},
	})
	return sh, bus
}

func TestTradingDay(t *testing.T) {
	sh, _ := newTestShop(t, false)

	// Restock two city bikes at 2000 each.
	if err := sh.Purchase("bike_city_100", 2, 2000); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	st := sh.State()
	if st.Money != 6000 {
		t.Fatalf("expected money 6000 after restock got %d", st.Money)
	}

	// Sell one over the counter at 2500.
	if err := sh.Sell("bike_city_100", 1, 2500); err != nil {
		t.Fatalf("Sell: %v", err)
	}
	st = sh.State()
	if st.Money != 8500 {
		t.Fatalf("expected money 8500 after sale got %d", st.Money)
	}
	if st.Reputation != state.StartingReputation+1 {
		t.Fatalf("expected entry-tier reputation gain, got %d", st.Reputation)
	}

	recs := sh.InventoryRecords()
	if len(recs) != 1 || recs[0].Quantity != 1 {
		t.Fatalf("unexpected stock after sale: %+v", recs)
	}
}

func TestCustomerSaleFlow(t *testing.T) {
	sh, _ := newTestShop(t, false)

	if err := sh.Purchase("bike_city_100", 1, 1200); err != nil {
		t.Fatal(err)
	}

	c := sh.GenerateCustomer()

	rec, err := sh.Recommend(c.ID, "bike_city_100")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// Students want a beginner entry bike: 50+15+15.
	if rec.MatchScore != 80 {
		t.Fatalf("expected match score 80 got %d", rec.MatchScore)
	}

	if err := sh.InteractCustomer(c.ID, "recommend"); err != nil {
		t.Fatal(err)
	}
	if err := sh.BeginPurchase(c.ID); err != nil {
		t.Fatal(err)
	}

	moneyBefore := sh.State().Money
	if err := sh.CompleteTransaction(c.ID, "bike_city_100"); err != nil {
		t.Fatalf("CompleteTransaction: %v", err)
	}

	st := sh.State()
	// The register charges the catalog sell price.
	if st.Money != moneyBefore+2000 {
		t.Fatalf("expected money %d got %d", moneyBefore+2000, st.Money)
	}
	if len(sh.Customers()) != 0 {
		t.Fatalf("customer still active after sale")
	}
	if len(sh.InventoryRecords()) != 0 {
		t.Fatalf("stock not consumed by sale")
	}
}

func TestCompleteTransactionRequiresRegisterState(t *testing.T) {
	sh, _ := newTestShop(t, false)

	if err := sh.Purchase("bike_city_100", 1, 1200); err != nil {
		t.Fatal(err)
	}
	c := sh.GenerateCustomer()

	err := sh.CompleteTransaction(c.ID, "bike_city_100")
	if !errors.Is(err, customer.ErrCustomerState) {
		t.Fatalf("expected ErrCustomerState got %v", err)
	}
	if len(sh.InventoryRecords()) != 1 {
		t.Fatalf("stock mutated by rejected transaction")
	}
}

func TestCompleteTransactionWithoutStockLeavesCustomer(t *testing.T) {
	sh, _ := newTestShop(t, false)

	c := sh.GenerateCustomer()
	if err := sh.InteractCustomer(c.ID, "recommend"); err != nil {
		t.Fatal(err)
	}
	if err := sh.BeginPurchase(c.ID); err != nil {
		t.Fatal(err)
	}

	err := sh.CompleteTransaction(c.ID, "bike_city_100")
	if !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	// The failed sale must not consume the customer.
	if len(sh.Customers()) != 1 {
		t.Fatalf("customer lost on failed sale")
	}
}

func TestRepairFlow(t *testing.T) {
	sh, _ := newTestShop(t, false)

	job, err := sh.CreateRepairJob(repair.FullService, "")
	if err != nil {
		t.Fatalf("CreateRepairJob: %v", err)
	}

	res, err := sh.ExecuteRepair(job.ID)
	if err != nil {
		t.Fatalf("ExecuteRepair: %v", err)
	}
	if res.Income != 300 {
		t.Fatalf("expected income 300 got %d", res.Income)
	}

	if _, err := sh.ExecuteRepair(job.ID); !errors.Is(err, repair.ErrJobCompleted) {
		t.Fatalf("expected ErrJobCompleted got %v", err)
	}

	st := sh.State()
	if st.Money != state.StartingMoney+300 {
		t.Fatalf("expected money %d got %d", state.StartingMoney+300, st.Money)
	}
}

func TestCreateRepairJobForUnknownCustomer(t *testing.T) {
	sh, _ := newTestShop(t, false)
	if _, err := sh.CreateRepairJob(repair.FlatTire, "ghost"); !errors.Is(err, customer.ErrUnknownCustomer) {
		t.Fatalf("expected ErrUnknownCustomer got %v", err)
	}
}

func TestAdvanceDayAgesStockAndCheckpoints(t *testing.T) {
	sh, bus := newTestShop(t, true)

	if err := sh.Purchase("apparel_jersey", 1, 150); err != nil {
		t.Fatal(err)
	}

	var types []events.Type
	bus.Subscribe(func(e events.Event) { types = append(types, e.Type) })

	if err := sh.AdvanceDay(); err != nil {
		t.Fatalf("AdvanceDay: %v", err)
	}

	st := sh.State()
	if st.Day != 2 {
		t.Fatalf("expected day 2 got %d", st.Day)
	}
	recs := sh.InventoryRecords()
	if recs[0].DaysInStock != 1 {
		t.Fatalf("stock not aged: %+v", recs[0])
	}

	var sawDay, sawSaved bool
	for _, ty := range types {
		switch ty {
		case events.TypeDayAdvanced:
			sawDay = true
		case events.TypeGameSaved:
			sawSaved = true
		}
	}
	if !sawDay || !sawSaved {
		t.Fatalf("missing day events: advanced=%v saved=%v", sawDay, sawSaved)
	}
	if !sh.HasValidSave() {
		t.Fatalf("day end did not checkpoint")
	}
}

func TestAdvanceDayWarnsOnStagnantStock(t *testing.T) {
	sh, bus := newTestShop(t, false)

	if err := sh.Purchase("apparel_jersey", 1, 150); err != nil {
		t.Fatal(err)
	}

	var warnings int
	bus.Subscribe(func(e events.Event) {
		if e.Type == events.TypeStagnantWarning {
			warnings++
		}
	})

	for i := 0; i <= inventory.StagnantAfterDays; i++ {
		if err := sh.AdvanceDay(); err != nil {
			t.Fatal(err)
		}
	}
	if warnings == 0 {
		t.Fatalf("expected stagnant warnings after %d days", inventory.StagnantAfterDays+1)
	}
}

func TestSaveLoadRestoresSession(t *testing.T) {
	sh, _ := newTestShop(t, true)

	if err := sh.Purchase("bike_city_100", 2, 2000); err != nil {
		t.Fatal(err)
	}
	if err := sh.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	savedMoney := sh.State().Money

	// Scramble the live state, then restore.
	sh.NewGame()
	if sh.State().Money != state.StartingMoney {
		t.Fatalf("NewGame did not reset money")
	}

	res, err := sh.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected successful load: %+v", res)
	}
	if sh.State().Money != savedMoney {
		t.Fatalf("expected restored money %d got %d", savedMoney, sh.State().Money)
	}
}

func TestLoadWithoutStoreStaysPlayable(t *testing.T) {
	sh, _ := newTestShop(t, false)

	res, err := sh.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.OK {
		t.Fatalf("expected OK=false without a store")
	}
	if sh.State().Money != state.StartingMoney {
		t.Fatalf("state not playable after failed load")
	}
}

func TestNewGameResetsEverything(t *testing.T) {
	sh, _ := newTestShop(t, false)

	if err := sh.Purchase("bike_city_100", 1, 1200); err != nil {
		t.Fatal(err)
	}
	sh.GenerateCustomer()
	if _, err := sh.CreateRepairJob(repair.FlatTire, ""); err != nil {
		t.Fatal(err)
	}

	sh.NewGame()

	st := sh.State()
	if st.Money != state.StartingMoney || st.Reputation != state.StartingReputation || st.Day != 1 {
		t.Fatalf("state not reset: %+v", st)
	}
	if len(sh.InventoryRecords()) != 0 || len(sh.Customers()) != 0 || len(sh.RepairJobs()) != 0 {
		t.Fatalf("collections not reset")
	}
}

func TestStateReturnsSnapshot(t *testing.T) {
	sh, _ := newTestShop(t, false)

	snap := sh.State()
	snap.Money = 1

	if sh.State().Money != state.StartingMoney {
		t.Fatalf("snapshot mutation leaked into the shop")
	}
}
