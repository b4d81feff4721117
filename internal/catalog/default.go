package catalog

// DefaultBrand is the one brand every new shop starts with.
const DefaultBrand = "local"

// Default returns the built-in starter catalog so the engine runs without
// any external data files. A YAML catalog loaded at startup replaces it.
func Default() *Catalog {
	c := &Catalog{
		Brands: []Brand{
			{ID: DefaultBrand, Name: "Local Works", Country: "domestic", Tier: 1,
				PriceModifier: 1.0, QualityModifier: 1.0},
			{ID: "veloce", Name: "Veloce", Country: "Italy", Tier: 3,
				RequiredReputation: 100, UnlockFee: 5000,
				PriceModifier: 1.2, QualityModifier: 1.3},
			{ID: "apex", Name: "Apex Racing", Country: "USA", Tier: 5,
				RequiredReputation: 400, UnlockFee: 20000,
				PriceModifier: 1.5, QualityModifier: 1.6},
		},
		Items: []Item{
			{
				ID: "bike_city_100", Name: "City Rider 100", Type: TypeBike,
				Tier: TierEntry, Brand: DefaultBrand,
				PurchasePrice: 1200, SellPrice: 2000,
				Bike: &BikeSpec{
					FrameMaterial: MaterialAluminum, BrakeType: BrakeRim,
					Gears: 7, GroupsetBrand: "Shimano", Wheelset: "Alloy 700c",
					Sizes:  []string{"S", "M", "L"},
					Colors: []string{"black", "white", "red"},
					ForCommuting: true, ForBeginners: true,
				},
			},
			{
				ID: "bike_gravel_300", Name: "Gravel Scout 300", Type: TypeBike,
				Tier: TierMid, Brand: DefaultBrand,
				PurchasePrice: 4500, SellPrice: 7200,
				Bike: &BikeSpec{
					FrameMaterial: MaterialAluminum, BrakeType: BrakeDisc,
					Gears: 20, GroupsetBrand: "SRAM", Wheelset: "Tubeless 700c",
					Sizes:  []string{"XS", "S", "M", "L", "XL"},
					Colors: []string{"olive", "sand"},
					ForCommuting: true,
				},
			},
			{
				ID: "bike_road_700", Name: "Roadline 700", Type: TypeBike,
				Tier: TierHigh, Brand: "veloce",
				PurchasePrice: 14000, SellPrice: 21000,
				RequiredReputation: 100, RequiredBrandUnlock: "veloce",
				Bike: &BikeSpec{
					FrameMaterial: MaterialCarbon, BrakeType: BrakeDisc,
					Gears: 22, GroupsetBrand: "Shimano", Wheelset: "Carbon 45mm",
					Sizes:  []string{"S", "M", "L"},
					Colors: []string{"white", "celeste"},
					ForRacing: true,
				},
			},
			{
				ID: "bike_aero_900", Name: "Aero Nine", Type: TypeBike,
				Tier: TierPro, Brand: "apex",
				PurchasePrice: 42000, SellPrice: 65000,
				RequiredReputation: 400, RequiredBrandUnlock: "apex",
				Bike: &BikeSpec{
					FrameMaterial: MaterialCarbon, BrakeType: BrakeDisc,
					Gears: 24, GroupsetBrand: "SRAM", Wheelset: "Carbon 60mm",
					Sizes:  []string{"S", "M", "L"},
					Colors: []string{"stealth"},
					ForRacing: true,
				},
			},
			{
				ID: "frame_steel_tour", Name: "Touring Steel Frame", Type: TypeFrame,
				Tier: TierMid, Brand: DefaultBrand,
				PurchasePrice: 2200, SellPrice: 3500,
			},
			{
				ID: "groupset_105", Name: "Road Groupset 11s", Type: TypeGroupset,
				Tier: TierMid, Brand: DefaultBrand,
				PurchasePrice: 2800, SellPrice: 4200,
			},
			{
				ID: "wheels_alloy_30", Name: "Alloy Wheelset 30mm", Type: TypeWheels,
				Tier: TierEntry, Brand: DefaultBrand,
				PurchasePrice: 900, SellPrice: 1500,
			},
			{
				ID: "acc_bottle_cage", Name: "Bottle Cage", Type: TypeAccessories,
				Tier: TierEntry, Brand: DefaultBrand,
				PurchasePrice: 30, SellPrice: 60,
			},
			{
				ID: "acc_computer", Name: "Ride Computer", Type: TypeAccessories,
				Tier: TierMid, Brand: DefaultBrand,
				PurchasePrice: 600, SellPrice: 950,
			},
			{
				ID: "tool_kit_home", Name: "Home Mechanic Kit", Type: TypeTools,
				Tier: TierEntry, Brand: DefaultBrand,
				PurchasePrice: 250, SellPrice: 420,
			},
			{
				ID: "apparel_jersey", Name: "Club Jersey", Type: TypeApparel,
				Tier: TierEntry, Brand: DefaultBrand,
				PurchasePrice: 150, SellPrice: 280,
			},
		},
		Stories: []Story{
			{
				ID:    "story_student_001",
				Title: "The Campus Race Dream",
				Text: "A student has been saving for months to buy a first road " +
					"bike for the campus race.",
				TargetType:      "student",
				ReputationBonus: 5,
			},
			{
				ID:    "story_commuter_001",
				Title: "Half an Hour More",
				Text: "A commuter wants a lighter bike so the ride home leaves " +
					"half an hour more with the kids.",
				TargetType:      "commuter",
				ReputationBonus: 3,
			},
			{
				ID:    "story_enthusiast_001",
				Title: "Tales from the Pass",
				Text: "A touring rider comes in for service and shares stories " +
					"from a mountain crossing.",
				TargetType:      "enthusiast",
				ReputationBonus: 4,
			},
		},
	}

	if err := c.index(); err != nil {
		// The built-in catalog is fixed data; an index failure is a bug.
		panic(err)
	}
	return c
}
