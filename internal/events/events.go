// Package events carries the engine's outbound event surface. Commands
// publish onto a Bus; the UI layer (HTTP/websocket) subscribes and relays.
package events

import "time"

// Type names an engine event.
type Type string

const (
	TypeMoneyChanged        Type = "money_changed"
	TypeReputationChanged   Type = "reputation_changed"
	TypeMoneyInsufficient   Type = "money_insufficient"
	TypeItemAdded           Type = "item_added"
	TypeItemRemoved         Type = "item_removed"
	TypeItemChanged         Type = "item_changed"
	TypeStockWarning        Type = "stock_warning"
	TypeStagnantWarning     Type = "stagnant_warning"
	TypeItemSold            Type = "item_sold"
	TypeCustomerEntered     Type = "customer_entered"
	TypeCustomerLeft        Type = "customer_left"
	TypeTransactionComplete Type = "transaction_complete"
	TypeStoryRevealed       Type = "story_revealed"
	TypeRepairComplete      Type = "repair_complete"
	TypeReputationGained    Type = "reputation_gained"
	TypeDayAdvanced         Type = "day_advanced"
	TypeGameSaved           Type = "game_saved"
	TypeGameLoaded          Type = "game_loaded"
)

// Event is one engine occurrence with a typed payload in Data.
type Event struct {
	Type Type      `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// Payload types, one per event.

type MoneyChanged struct {
	Money int `json:"money"`
}

type ReputationChanged struct {
	Reputation int `json:"reputation"`
}

type MoneyInsufficient struct {
	Shortfall int `json:"shortfall"`
}

type ItemAdded struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type ItemRemoved struct {
	ItemID string `json:"item_id"`
}

type ItemChanged struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type StockWarning struct {
	Message string `json:"message"`
}

type StagnantWarning struct {
	Message string `json:"message"`
}

type ItemSold struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
}

type CustomerEntered struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Type       string `json:"customer_type"`
}

type CustomerLeft struct {
	CustomerID string `json:"customer_id"`
	Satisfied  bool   `json:"satisfied"`
}

type TransactionComplete struct {
	CustomerID string `json:"customer_id"`
	Success    bool   `json:"success"`
}

type StoryRevealed struct {
	StoryID         string `json:"story_id"`
	Title           string `json:"title"`
	ReputationBonus int    `json:"reputation_bonus"`
}

type RepairComplete struct {
	JobID          string `json:"job_id"`
	Income         int    `json:"income"`
	ReputationGain int    `json:"reputation_gain"`
}

type ReputationGained struct {
	Amount int `json:"amount"`
}

type DayAdvanced struct {
	Day int `json:"day"`
}

type GameSaved struct {
	Day int `json:"day"`
}

type GameLoaded struct {
	RestoredFromBackup bool `json:"restored_from_backup"`
}
