package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIntegrity(t *testing.T) {
	c := Default()

	if len(c.Items) == 0 || len(c.Brands) == 0 || len(c.Stories) == 0 {
		t.Fatalf("default catalog incomplete: %d items, %d brands, %d stories",
			len(c.Items), len(c.Brands), len(c.Stories))
	}

	if c.BrandByID(DefaultBrand) == nil {
		t.Fatalf("default brand %q missing from catalog", DefaultBrand)
	}

	for _, item := range c.Items {
		if c.ItemByID(item.ID) == nil {
			t.Fatalf("item %q not indexed", item.ID)
		}
		if item.Type == TypeBike && item.Bike == nil {
			t.Fatalf("bike item %q has no spec", item.ID)
		}
		if item.Type != TypeBike && item.Bike != nil {
			t.Fatalf("non-bike item %q carries a bike spec", item.ID)
		}
		if item.SellPrice <= item.PurchasePrice {
			t.Fatalf("item %q has no margin: buy %d sell %d", item.ID, item.PurchasePrice, item.SellPrice)
		}
	}
}

func TestTierReputationGain(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{TierEntry, 1},
		{TierMid, 2},
		{TierHigh, 3},
		{TierPro, 5},
		{Tier("unknown"), 1},
	}
	for _, tt := range tests {
		if got := tt.tier.ReputationGain(); got != tt.want {
			t.Fatalf("tier %q reputation gain = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestStoriesFor(t *testing.T) {
	c := Default()

	for _, typ := range []string{"student", "commuter", "enthusiast"} {
		stories := c.StoriesFor(typ)
		if len(stories) == 0 {
			t.Fatalf("no stories target %q", typ)
		}
		for _, s := range stories {
			if s.ReputationBonus <= 0 {
				t.Fatalf("story %q has no reputation bonus", s.ID)
			}
		}
	}

	if got := c.StoriesFor("racer"); len(got) != 0 {
		t.Fatalf("expected no racer stories in default catalog, got %d", len(got))
	}
}

func TestLoadFromYAML(t *testing.T) {
	src := `
items:
  - id: bike_test
    name: Test Bike
    type: bike
    tier: entry
    brand: local
    purchase_price: 1000
    sell_price: 1600
    bike:
      frame_material: aluminum
      brake_type: disc
      gears: 18
      for_commuting: true
brands:
  - id: local
    name: Local Workshop
    tier: 1
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	item := c.ItemByID("bike_test")
	if item == nil {
		t.Fatalf("loaded item not indexed")
	}
	if item.Bike == nil || item.Bike.FrameMaterial != MaterialAluminum || !item.Bike.ForCommuting {
		t.Fatalf("bike spec not decoded: %+v", item.Bike)
	}
	if c.BrandByID("local") == nil {
		t.Fatalf("loaded brand not indexed")
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"duplicate item id", `
items:
  - id: x
    name: A
    type: tools
    tier: entry
    purchase_price: 1
    sell_price: 2
  - id: x
    name: B
    type: tools
    tier: entry
    purchase_price: 1
    sell_price: 2
`},
		{"bike without spec", `
items:
  - id: b
    name: Bare Bike
    type: bike
    tier: entry
    purchase_price: 1
    sell_price: 2
`},
		{"missing id", `
items:
  - name: Anonymous
    type: tools
    tier: entry
    purchase_price: 1
    sell_price: 2
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tt.src), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}
