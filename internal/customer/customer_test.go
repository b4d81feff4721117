package customer

import (
	"testing"

	"github.com/velobay/shopsim/internal/catalog"
)

func TestMatchScore(t *testing.T) {
	roadBike := &catalog.Item{
		ID: "road", Type: catalog.TypeBike, Tier: catalog.TierPro, Brand: "apex",
		Bike: &catalog.BikeSpec{FrameMaterial: catalog.MaterialCarbon, ForRacing: true},
	}
	cityBike := &catalog.Item{
		ID: "city", Type: catalog.TypeBike, Tier: catalog.TierEntry, Brand: "local",
		Bike: &catalog.BikeSpec{FrameMaterial: catalog.MaterialAluminum, ForCommuting: true, ForBeginners: true},
	}
	toolKit := &catalog.Item{
		ID: "tools", Type: catalog.TypeTools, Tier: catalog.TierEntry, Brand: "local",
	}

	tests := []struct {
		name string
		c    Customer
		item *catalog.Item
		want int
	}{
		{
			name: "neutral item scores base",
			c:    Customer{Needs: Needs{}},
			item: toolKit,
			want: 50,
		},
		{
			name: "racing plus tier plus brand plus material hits the cap",
			c: Customer{Needs: Needs{
				ForRacing:         true,
				PreferredTier:     catalog.TierPro,
				PreferredBrand:    "apex",
				PreferredMaterial: catalog.MaterialCarbon,
			}},
			item: roadBike,
			// 50 + 20 + 15 + 10 + 10 = 105, clamped to 100.
			want: 100,
		},
		{
			name: "commuting and beginner boosts stack",
			c: Customer{Needs: Needs{
				ForCommuting:  true,
				ForBeginners:  true,
				PreferredTier: catalog.TierEntry,
			}},
			item: cityBike,
			want: 50 + 15 + 15 + 15,
		},
		{
			name: "usage needs ignore non-bike items",
			c: Customer{Needs: Needs{
				ForRacing:     true,
				PreferredTier: catalog.TierEntry,
			}},
			item: toolKit,
			want: 50 + 15,
		},
		{
			name: "material preference ignores non-bike items",
			c: Customer{Needs: Needs{
				PreferredMaterial: catalog.MaterialAluminum,
			}},
			item: toolKit,
			want: 50,
		},
		{
			name: "mismatched bike stays at base",
			c: Customer{Needs: Needs{
				ForRacing:     true,
				PreferredTier: catalog.TierPro,
			}},
			item: cityBike,
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchScore(&tt.c, tt.item); got != tt.want {
				t.Fatalf("MatchScore = %d, want %d", got, tt.want)
			}
		})
	}
}
