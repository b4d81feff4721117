// Package state holds the player's economic state, the single source of
// truth for money and reputation. All mutation goes through AddMoney and
// AddReputation so the clamping rules hold everywhere.
package state

import "math"

const (
	// MaxMoney is the saturation ceiling for the money counter.
	MaxMoney = math.MaxInt32

	// MaxReputation is the reputation ceiling.
	MaxReputation = 1000

	// StartingMoney and StartingReputation are the new-game values.
	StartingMoney      = 10000
	StartingReputation = 10
)

// PlayerState is the full persisted player aggregate.
type PlayerState struct {
	Money      int `json:"money"`
	Reputation int `json:"reputation"`
	Day        int `json:"day"`

	ShopLevel       int  `json:"shop_level"`
	HasShowroom     bool `json:"has_showroom"`
	HasWorkshop     bool `json:"has_workshop"`
	HasCustomStudio bool `json:"has_custom_studio"`

	UnlockedBrands      []string `json:"unlocked_brands"`
	UnlockedItems       []string `json:"unlocked_items"`
	CompletedMilestones []string `json:"completed_milestones"`

	FansCount       int      `json:"fans_count"`
	CustomerFriends []string `json:"customer_friends"`

	// Team data is carried for later phases; the engine never reads it but
	// it must survive save/load.
	HasTeam bool  `json:"has_team"`
	Team    *Team `json:"team,omitempty"`
}

// Team is the roster substructure unlocked in a later phase.
type Team struct {
	Name     string    `json:"name"`
	Level    int       `json:"level"`
	Cyclists []Cyclist `json:"cyclists"`
	Staff    []Staff   `json:"staff"`
}

// Cyclist is one rider on the team roster.
type Cyclist struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Role string `json:"role"`

	Climbing          int `json:"climbing"`
	Sprint            int `json:"sprint"`
	TimeTrial         int `json:"time_trial"`
	Endurance         int `json:"endurance"`
	Recovery          int `json:"recovery"`
	TacticalAwareness int `json:"tactical_awareness"`
	Teamwork          int `json:"teamwork"`

	Fatigue     int    `json:"fatigue"`
	Morale      int    `json:"morale"`
	Personality string `json:"personality"`
	Salary      int    `json:"salary"`
}

// Staff is a support hire on the team roster.
type Staff struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Skill  int    `json:"skill"`
	Salary int    `json:"salary"`
}

// New returns a fresh new-game state with the default brand unlocked.
func New(defaultBrand string) *PlayerState {
	return &PlayerState{
		Money:               StartingMoney,
		Reputation:          StartingReputation,
		Day:                 1,
		ShopLevel:           1,
		UnlockedBrands:      []string{defaultBrand},
		UnlockedItems:       []string{},
		CompletedMilestones: []string{},
		CustomerFriends:     []string{},
	}
}

// AddMoney applies a delta, saturating at MaxMoney and flooring at zero.
// Returns the new balance.
func (p *PlayerState) AddMoney(delta int) int {
	m := p.Money + delta
	if delta > 0 && m < p.Money {
		m = MaxMoney // overflow
	}
	if m > MaxMoney {
		m = MaxMoney
	}
	if m < 0 {
		m = 0
	}
	p.Money = m
	return p.Money
}

// AddReputation applies a delta, clamped to [0, MaxReputation].
// Returns the new reputation.
func (p *PlayerState) AddReputation(delta int) int {
	r := p.Reputation + delta
	if r > MaxReputation {
		r = MaxReputation
	}
	if r < 0 {
		r = 0
	}
	p.Reputation = r
	return p.Reputation
}

// BrandUnlocked reports whether the player holds the brand authorization.
func (p *PlayerState) BrandUnlocked(id string) bool {
	for _, b := range p.UnlockedBrands {
		if b == id {
			return true
		}
	}
	return false
}

// UnlockBrand records a brand authorization. Idempotent.
func (p *PlayerState) UnlockBrand(id string) {
	if !p.BrandUnlocked(id) {
		p.UnlockedBrands = append(p.UnlockedBrands, id)
	}
}
