package repair

import (
	"errors"
	"testing"
	"time"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/clock"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/state"
)

func newTestService(t *testing.T) (*Service, *state.PlayerState) {
	t.Helper()
	player := state.New(catalog.DefaultBrand)
	bus := events.NewBus(nil)
	fixed := clock.Fixed{T: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	return NewService(player, bus, fixed), player
}

func TestRepairTables(t *testing.T) {
	tests := []struct {
		typ      Type
		cost     int
		minutes  int
		repGain  int
		numTools int
	}{
		{FlatTire, 50, 15, 1, 3},
		{GearAdjustment, 80, 30, 2, 3},
		{BrakeService, 60, 20, 1, 3},
		{WheelTruing, 150, 60, 3, 3},
		{FullService, 300, 120, 4, 3},
		{CustomTuning, 500, 90, 5, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := Cost(tt.typ); got != tt.cost {
				t.Fatalf("Cost = %d, want %d", got, tt.cost)
			}
			if got := Duration(tt.typ); got != tt.minutes {
				t.Fatalf("Duration = %d, want %d", got, tt.minutes)
			}
			if got := reputationGain(tt.typ); got != tt.repGain {
				t.Fatalf("reputationGain = %d, want %d", got, tt.repGain)
			}
			if got := Tools(tt.typ); len(got) != tt.numTools {
				t.Fatalf("Tools = %v, want %d entries", got, tt.numTools)
			}
		})
	}
}

func TestCreateJobSnapshotsTables(t *testing.T) {
	s, _ := newTestService(t)

	job := s.CreateJob(WheelTruing, "cust-1")
	if job.ID == "" {
		t.Fatalf("job has no id")
	}
	if job.Status != StatusPending {
		t.Fatalf("expected pending got %q", job.Status)
	}
	if job.BaseCost != 150 || job.EstimatedMinutes != 60 {
		t.Fatalf("tables not snapshotted: %+v", job)
	}
	if job.CustomerID != "cust-1" {
		t.Fatalf("customer id lost: %q", job.CustomerID)
	}
}

func TestExecuteCreditsIncomeAndReputation(t *testing.T) {
	s, player := newTestService(t)
	job := s.CreateJob(FullService, "")

	res, err := s.Execute(job.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Income != 300 || res.ReputationGain != 4 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if player.Money != state.StartingMoney+300 {
		t.Fatalf("expected money %d got %d", state.StartingMoney+300, player.Money)
	}
	if player.Reputation != state.StartingReputation+4 {
		t.Fatalf("expected reputation %d got %d", state.StartingReputation+4, player.Reputation)
	}
	if res.Job.Status != StatusCompleted || res.Job.CompletedAt == nil {
		t.Fatalf("job not closed out: %+v", res.Job)
	}
}

func TestWorkshopBonusTruncates(t *testing.T) {
	s, player := newTestService(t)
	player.HasWorkshop = true

	job := s.CreateJob(FlatTire, "")
	res, err := s.Execute(job.ID)
	if err != nil {
		t.Fatal(err)
	}
	// 50 * 1.2 = 60, and the workshop adds one extra reputation point.
	if res.Income != 60 {
		t.Fatalf("expected workshop income 60 got %d", res.Income)
	}
	if res.ReputationGain != 2 {
		t.Fatalf("expected reputation gain 2 got %d", res.ReputationGain)
	}
}

func TestExecuteTwiceFails(t *testing.T) {
	s, player := newTestService(t)
	job := s.CreateJob(BrakeService, "")

	if _, err := s.Execute(job.ID); err != nil {
		t.Fatal(err)
	}
	moneyAfterFirst := player.Money

	if _, err := s.Execute(job.ID); !errors.Is(err, ErrJobCompleted) {
		t.Fatalf("expected ErrJobCompleted got %v", err)
	}
	if player.Money != moneyAfterFirst {
		t.Fatalf("income double-credited: %d", player.Money)
	}
}

func TestExecuteUnknownJob(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.Execute("no-such-job"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound got %v", err)
	}
}

func TestCancel(t *testing.T) {
	s, player := newTestService(t)
	job := s.CreateJob(CustomTuning, "")

	if err := s.Cancel(job.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got, _ := s.Get(job.ID); got.Status != StatusCancelled {
		t.Fatalf("expected cancelled got %q", got.Status)
	}

	// A cancelled job can be neither executed nor cancelled again.
	if _, err := s.Execute(job.ID); !errors.Is(err, ErrJobCompleted) {
		t.Fatalf("expected ErrJobCompleted on executing cancelled job, got %v", err)
	}
	if err := s.Cancel(job.ID); !errors.Is(err, ErrJobCompleted) {
		t.Fatalf("expected ErrJobCompleted on double cancel, got %v", err)
	}
	if player.Money != state.StartingMoney {
		t.Fatalf("cancelled job touched money: %d", player.Money)
	}
}

func TestJobsSortedByCreation(t *testing.T) {
	s, _ := newTestService(t)
	a := s.CreateJob(FlatTire, "")
	b := s.CreateJob(GearAdjustment, "")

	jobs := s.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs got %d", len(jobs))
	}
	// Same fixed timestamp, so order falls back to id.
	wantFirst, wantSecond := a.ID, b.ID
	if wantFirst > wantSecond {
		wantFirst, wantSecond = wantSecond, wantFirst
	}
	if jobs[0].ID != wantFirst || jobs[1].ID != wantSecond {
		t.Fatalf("jobs out of order: %v, %v", jobs[0].ID, jobs[1].ID)
	}
}
