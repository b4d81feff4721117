// Package repair prices and executes maintenance jobs. Cost, duration, tool,
// and reputation tables are fixed constants keyed by repair type.
package repair

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/velobay/shopsim/internal/clock"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/state"
)

var (
	ErrJobNotFound  = errors.New("repair job not found")
	ErrJobCompleted = errors.New("repair job already finished")
)

// Type is a kind of maintenance work.
type Type string

const (
	FlatTire       Type = "flat_tire"
	GearAdjustment Type = "gear_adjustment"
	BrakeService   Type = "brake_service"
	WheelTruing    Type = "wheel_truing"
	FullService    Type = "full_service"
	CustomTuning   Type = "custom_tuning"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Cost returns the base labor charge for a repair type.
func Cost(t Type) int {
	switch t {
	case FlatTire:
		return 50
	case GearAdjustment:
		return 80
	case BrakeService:
		return 60
	case WheelTruing:
		return 150
	case FullService:
		return 300
	case CustomTuning:
		return 500
	default:
		return 50
	}
}

// Duration returns the estimated bench time in sim minutes.
func Duration(t Type) int {
	switch t {
	case FlatTire:
		return 15
	case GearAdjustment:
		return 30
	case BrakeService:
		return 20
	case WheelTruing:
		return 60
	case FullService:
		return 120
	case CustomTuning:
		return 90
	default:
		return 30
	}
}

// Tools returns the bench tools a repair type calls for.
func Tools(t Type) []string {
	switch t {
	case FlatTire:
		return []string{"tire levers", "floor pump", "spare tube"}
	case GearAdjustment:
		return []string{"hex wrenches", "screwdriver", "derailleur stand"}
	case BrakeService:
		return []string{"hex wrenches", "brake fluid", "bleed kit"}
	case WheelTruing:
		return []string{"truing stand", "spoke wrench", "tension meter"}
	case FullService:
		return []string{"full tool set", "grease", "degreaser"}
	case CustomTuning:
		return []string{"fitting jig", "torque wrench", "measurement rig"}
	default:
		return []string{"basic tool kit"}
	}
}

func reputationGain(t Type) int {
	switch t {
	case FlatTire:
		return 1
	case GearAdjustment:
		return 2
	case BrakeService:
		return 1
	case WheelTruing:
		return 3
	case FullService:
		return 4
	case CustomTuning:
		return 5
	default:
		return 1
	}
}

// Job is one repair work order. Completed jobs are immutable.
type Job struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	CustomerID string `json:"customer_id,omitempty"`
	Status     Status `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	BaseCost         int      `json:"base_cost"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	RequiredTools    []string `json:"required_tools"`
}

// Result reports the economic outcome of an executed job.
type Result struct {
	Job            Job `json:"job"`
	Income         int `json:"income"`
	ReputationGain int `json:"reputation_gain"`
}

// Service creates and executes repair jobs against the player state.
type Service struct {
	player *state.PlayerState
	bus    *events.Bus
	clk    clock.Clock
	jobs   map[string]*Job
}

// NewService creates a repair service.
func NewService(player *state.PlayerState, bus *events.Bus, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		player: player,
		bus:    bus,
		clk:    clk,
		jobs:   make(map[string]*Job),
	}
}

// CreateJob opens a pending work order for a repair type. customerID may be
// empty for walk-in work.
func (s *Service) CreateJob(t Type, customerID string) *Job {
	job := &Job{
		ID:               uuid.NewString(),
		Type:             t,
		CustomerID:       customerID,
		Status:           StatusPending,
		CreatedAt:        s.clk.Now(),
		BaseCost:         Cost(t),
		EstimatedMinutes: Duration(t),
		RequiredTools:    Tools(t),
	}
	s.jobs[job.ID] = job
	return job
}

// Get returns a copy of a job by id.
func (s *Service) Get(id string) (Job, bool) {
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Jobs returns copies of all jobs sorted by creation time, oldest first.
func (s *Service) Jobs() []Job {
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Execute performs a pending or in-progress job: credits the labor income,
// awards reputation, and marks the job completed. A finished job cannot be
// executed again; re-execution fails with ErrJobCompleted so income is
// never double-credited.
func (s *Service) Execute(id string) (Result, error) {
	job, ok := s.jobs[id]
	if !ok {
		return Result{}, fmt.Errorf("execute %q: %w", id, ErrJobNotFound)
	}
	if job.Status == StatusCompleted || job.Status == StatusCancelled {
		return Result{}, fmt.Errorf("execute %q: %w", id, ErrJobCompleted)
	}

	income := job.BaseCost
	gain := reputationGain(job.Type)
	if s.player.HasWorkshop {
		income = int(float64(income) * 1.2)
		gain++
	}

	s.player.AddMoney(income)
	s.bus.Publish(events.TypeMoneyChanged, events.MoneyChanged{Money: s.player.Money})
	s.player.AddReputation(gain)
	s.bus.Publish(events.TypeReputationChanged, events.ReputationChanged{Reputation: s.player.Reputation})
	s.bus.Publish(events.TypeReputationGained, events.ReputationGained{Amount: gain})

	done := s.clk.Now()
	job.Status = StatusCompleted
	job.CompletedAt = &done

	s.bus.Publish(events.TypeRepairComplete, events.RepairComplete{
		JobID:          job.ID,
		Income:         income,
		ReputationGain: gain,
	})

	return Result{Job: *job, Income: income, ReputationGain: gain}, nil
}

// Cancel closes a job that has not been executed.
func (s *Service) Cancel(id string) error {
	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("cancel %q: %w", id, ErrJobNotFound)
	}
	if job.Status == StatusCompleted || job.Status == StatusCancelled {
		return fmt.Errorf("cancel %q: %w", id, ErrJobCompleted)
	}
	job.Status = StatusCancelled
	return nil
}

// Reset drops all jobs. Used on new game.
func (s *Service) Reset() {
	s.jobs = make(map[string]*Job)
}
