// Package catalog holds the read-only merchandise data the shop trades in:
// items, brands, and the customer story pool. The engine never mutates it.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemType classifies merchandise.
type ItemType string

const (
	TypeBike        ItemType = "bike"
	TypeFrame       ItemType = "frame"
	TypeGroupset    ItemType = "groupset"
	TypeWheels      ItemType = "wheels"
	TypeAccessories ItemType = "accessories"
	TypeTools       ItemType = "tools"
	TypeApparel     ItemType = "apparel"
)

// Tier is the quality/price class of an item.
type Tier string

const (
	TierEntry Tier = "entry"
	TierMid   Tier = "mid"
	TierHigh  Tier = "high"
	TierPro   Tier = "pro"
)

// ReputationGain returns the reputation earned when an item of this tier sells.
func (t Tier) ReputationGain() int {
	switch t {
	case TierEntry:
		return 1
	case TierMid:
		return 2
	case TierHigh:
		return 3
	case TierPro:
		return 5
	default:
		return 1
	}
}

// FrameMaterial is a bike frame construction material.
type FrameMaterial string

const (
	MaterialAluminum FrameMaterial = "aluminum"
	MaterialSteel    FrameMaterial = "steel"
	MaterialCarbon   FrameMaterial = "carbon"
	MaterialTitanium FrameMaterial = "titanium"
)

// BrakeType distinguishes rim and disc brakes.
type BrakeType string

const (
	BrakeRim  BrakeType = "rim"
	BrakeDisc BrakeType = "disc"
)

// BikeSpec is the bike-specific payload of an Item. Only items with
// Type == TypeBike carry one.
type BikeSpec struct {
	FrameMaterial FrameMaterial `yaml:"frame_material" json:"frame_material"`
	BrakeType     BrakeType     `yaml:"brake_type" json:"brake_type"`
	Gears         int           `yaml:"gears" json:"gears"`
	GroupsetBrand string        `yaml:"groupset_brand" json:"groupset_brand"`
	Wheelset      string        `yaml:"wheelset" json:"wheelset"`
	Sizes         []string      `yaml:"sizes" json:"sizes"`
	Colors        []string      `yaml:"colors" json:"colors"`
	ForRacing     bool          `yaml:"for_racing" json:"for_racing"`
	ForCommuting  bool          `yaml:"for_commuting" json:"for_commuting"`
	ForBeginners  bool          `yaml:"for_beginners" json:"for_beginners"`
}

// Item is a catalog entry. Bike items carry a BikeSpec payload; all other
// types leave it nil.
type Item struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Type        ItemType `yaml:"type" json:"type"`
	Tier        Tier     `yaml:"tier" json:"tier"`
	Brand       string   `yaml:"brand" json:"brand"`

	PurchasePrice  int `yaml:"purchase_price" json:"purchase_price"`
	SellPrice      int `yaml:"sell_price" json:"sell_price"`
	ReputationGain int `yaml:"reputation_gain" json:"reputation_gain,omitempty"`

	Weight      int `yaml:"weight" json:"weight,omitempty"`
	Durability  int `yaml:"durability" json:"durability,omitempty"`
	Performance int `yaml:"performance" json:"performance,omitempty"`

	RequiredReputation  int    `yaml:"required_reputation" json:"required_reputation,omitempty"`
	RequiredBrandUnlock string `yaml:"required_brand_unlock" json:"required_brand_unlock,omitempty"`

	Bike *BikeSpec `yaml:"bike,omitempty" json:"bike,omitempty"`
}

// Brand is a supplier whose items may be gated behind an unlock.
type Brand struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Country string `yaml:"country" json:"country,omitempty"`
	Tier    int    `yaml:"tier" json:"tier"`

	RequiredReputation int `yaml:"required_reputation" json:"required_reputation"`
	UnlockFee          int `yaml:"unlock_fee" json:"unlock_fee"`

	PriceModifier   float64 `yaml:"price_modifier" json:"price_modifier"`
	QualityModifier float64 `yaml:"quality_modifier" json:"quality_modifier"`
}

// Story is a customer backstory that rewards reputation when revealed
// through a completed sale.
type Story struct {
	ID              string `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Text            string `yaml:"text" json:"text"`
	TargetType      string `yaml:"target_type" json:"target_type"`
	ReputationBonus int    `yaml:"reputation_bonus" json:"reputation_bonus"`
}

// Catalog is the full merchandise database.
type Catalog struct {
	Items   []Item  `yaml:"items"`
	Brands  []Brand `yaml:"brands"`
	Stories []Story `yaml:"stories"`

	itemsByID  map[string]*Item
	brandsByID map[string]*Brand
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.itemsByID = make(map[string]*Item, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		if it.ID == "" {
			return fmt.Errorf("catalog item %d has no id", i)
		}
		if _, dup := c.itemsByID[it.ID]; dup {
			return fmt.Errorf("duplicate catalog item id %q", it.ID)
		}
		if it.Type == TypeBike && it.Bike == nil {
			return fmt.Errorf("bike item %q has no bike spec", it.ID)
		}
		c.itemsByID[it.ID] = it
	}

	c.brandsByID = make(map[string]*Brand, len(c.Brands))
	for i := range c.Brands {
		b := &c.Brands[i]
		if b.ID == "" {
			return fmt.Errorf("catalog brand %d has no id", i)
		}
		if _, dup := c.brandsByID[b.ID]; dup {
			return fmt.Errorf("duplicate catalog brand id %q", b.ID)
		}
		c.brandsByID[b.ID] = b
	}
	return nil
}

// ItemByID returns the item with the given id, or nil.
func (c *Catalog) ItemByID(id string) *Item {
	return c.itemsByID[id]
}

// BrandByID returns the brand with the given id, or nil.
func (c *Catalog) BrandByID(id string) *Brand {
	return c.brandsByID[id]
}

// ItemsByType returns all items of one type, in catalog order.
func (c *Catalog) ItemsByType(t ItemType) []*Item {
	var out []*Item
	for i := range c.Items {
		if c.Items[i].Type == t {
			out = append(out, &c.Items[i])
		}
	}
	return out
}

// ItemsByTier returns all items of one tier, in catalog order.
func (c *Catalog) ItemsByTier(t Tier) []*Item {
	var out []*Item
	for i := range c.Items {
		if c.Items[i].Tier == t {
			out = append(out, &c.Items[i])
		}
	}
	return out
}

// StoriesFor returns the stories targeting a customer type, in catalog order.
func (c *Catalog) StoriesFor(customerType string) []*Story {
	var out []*Story
	for i := range c.Stories {
		if c.Stories[i].TargetType == customerType {
			out = append(out, &c.Stories[i])
		}
	}
	return out
}
