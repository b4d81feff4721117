// Package customer generates shoppers with type-driven needs and budgets,
// scores item fit against those needs, and drives the customer lifecycle
// through recommendation and transaction completion.
package customer

import (
	"errors"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/repair"
)

var (
	ErrUnknownCustomer = errors.New("unknown customer")
	ErrCustomerState   = errors.New("customer not in required state")
)

// Type is a shopper archetype. It fixes the budget range and needs profile.
type Type string

const (
	Student    Type = "student"
	Commuter   Type = "commuter"
	Enthusiast Type = "enthusiast"
	Racer      Type = "racer"
	Influencer Type = "influencer"
)

// State is a customer's lifecycle stage while in the shop.
type State string

const (
	StateEntering    State = "entering"
	StateBrowsing    State = "browsing"
	StateAsking      State = "asking"
	StateDeciding    State = "deciding"
	StatePurchasing  State = "purchasing"
	StateSatisfied   State = "satisfied"
	StateUnsatisfied State = "unsatisfied"
	StateLeaving     State = "leaving"
)

// Needs describes what a customer is shopping for.
type Needs struct {
	MinBudget int `json:"min_budget"`
	MaxBudget int `json:"max_budget"`

	ForRacing    bool `json:"for_racing"`
	ForCommuting bool `json:"for_commuting"`
	ForTraining  bool `json:"for_training"`
	ForBeginners bool `json:"for_beginners"`

	PreferredTier     catalog.Tier          `json:"preferred_tier,omitempty"`
	PreferredBrand    string                `json:"preferred_brand,omitempty"`
	PreferredMaterial catalog.FrameMaterial `json:"preferred_material,omitempty"`

	RepairNeed     repair.Type        `json:"repair_need,omitempty"`
	AccessoryNeeds []catalog.ItemType `json:"accessory_needs,omitempty"`

	HighVisual     bool   `json:"high_visual"`
	PreferredColor string `json:"preferred_color,omitempty"`
}

// Customer is one generated shopper. Customers live only in memory for the
// duration of a visit; they are never persisted.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	State State  `json:"state"`

	Budget int   `json:"budget"`
	Needs  Needs `json:"needs"`

	Satisfaction int `json:"satisfaction"` // 0–100, starts at 50
	// Patience is carried but never decremented; timed walk-outs are a
	// product decision that has not been made.
	Patience int `json:"patience"` // 0–100, starts at 100

	StoryID       string `json:"story_id,omitempty"`
	StoryRevealed bool   `json:"story_revealed"`
}

func clampSatisfaction(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// MatchScore rates how well an item fits a customer's needs on a 0–100
// scale. It is a pure additive heuristic: base 50, plus fixed boosts for
// usage, tier, brand, and frame material matches, clamped to the range.
func MatchScore(c *Customer, item *catalog.Item) int {
	score := 50

	if item.Bike != nil {
		if c.Needs.ForRacing && item.Bike.ForRacing {
			score += 20
		}
		if c.Needs.ForCommuting && item.Bike.ForCommuting {
			score += 15
		}
		if c.Needs.ForBeginners && item.Bike.ForBeginners {
			score += 15
		}
	}

	if item.Tier == c.Needs.PreferredTier {
		score += 15
	}
	if c.Needs.PreferredBrand != "" && item.Brand == c.Needs.PreferredBrand {
		score += 10
	}
	if c.Needs.PreferredMaterial != "" && item.Bike != nil &&
		item.Bike.FrameMaterial == c.Needs.PreferredMaterial {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Recommendation is the outcome of pitching an item to a customer.
type Recommendation struct {
	ItemID            string `json:"item_id"`
	MatchScore        int    `json:"match_score"`
	OverBudget        bool   `json:"over_budget"`
	BudgetShortfall   int    `json:"budget_shortfall,omitempty"`
	Feedback          string `json:"feedback"`
	SatisfactionDelta int    `json:"satisfaction_delta"`
}
