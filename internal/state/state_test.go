package state

import "testing"

func TestNewDefaults(t *testing.T) {
	p := New("local")

	if p.Money != StartingMoney {
		t.Fatalf("expected starting money %d got %d", StartingMoney, p.Money)
	}
	if p.Reputation != StartingReputation {
		t.Fatalf("expected starting reputation %d got %d", StartingReputation, p.Reputation)
	}
	if p.Day != 1 {
		t.Fatalf("expected day 1 got %d", p.Day)
	}
	if !p.BrandUnlocked("local") {
		t.Fatalf("expected default brand unlocked")
	}
	if p.UnlockedItems == nil || p.CompletedMilestones == nil || p.CustomerFriends == nil {
		t.Fatalf("expected collections initialized, got %+v", p)
	}
}

func TestAddMoneyClamps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"credit", 100, 50, 150},
		{"debit", 100, -40, 60},
		{"floor at zero", 100, -500, 0},
		{"saturate at ceiling", MaxMoney - 10, 100, MaxMoney},
		{"overflow saturates", MaxMoney, MaxMoney, MaxMoney},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PlayerState{Money: tt.start}
			if got := p.AddMoney(tt.delta); got != tt.want {
				t.Fatalf("AddMoney(%d) from %d = %d, want %d", tt.delta, tt.start, got, tt.want)
			}
		})
	}
}

func TestAddReputationClamps(t *testing.T) {
	p := &PlayerState{Reputation: 10}

	// Repeated losses can never push reputation below zero.
	for i := 0; i < 10; i++ {
		p.AddReputation(-5)
	}
	if p.Reputation != 0 {
		t.Fatalf("expected reputation floored at 0 got %d", p.Reputation)
	}

	p.AddReputation(2 * MaxReputation)
	if p.Reputation != MaxReputation {
		t.Fatalf("expected reputation capped at %d got %d", MaxReputation, p.Reputation)
	}
}

func TestUnlockBrandIdempotent(t *testing.T) {
	p := New("local")
	p.UnlockBrand("veloce")
	p.UnlockBrand("veloce")

	if len(p.UnlockedBrands) != 2 {
		t.Fatalf("expected 2 unlocked brands got %v", p.UnlockedBrands)
	}
	if !p.BrandUnlocked("veloce") {
		t.Fatalf("expected veloce unlocked")
	}
	if p.BrandUnlocked("apex") {
		t.Fatalf("apex should be locked")
	}
}
