package customer

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/events"
	"github.com/velobay/shopsim/internal/state"
)

// Weights are the relative odds of each customer type in the generation
// draw. Zero disables a type.
type Weights struct {
	Student    int `json:"student"`
	Commuter   int `json:"commuter"`
	Enthusiast int `json:"enthusiast"`
	Racer      int `json:"racer"`
	Influencer int `json:"influencer"`
}

// DefaultWeights match the launch traffic mix.
func DefaultWeights() Weights {
	return Weights{Student: 30, Commuter: 30, Enthusiast: 30, Racer: 5, Influencer: 5}
}

func (w Weights) total() int {
	return w.Student + w.Commuter + w.Enthusiast + w.Racer + w.Influencer
}

// storyChance is the probability a generated customer carries a backstory.
const storyChance = 0.3

var firstNames = []string{
	"Alex", "Sam", "Jordan", "Casey", "Riley", "Morgan", "Quinn", "Avery",
	"Dana", "Robin", "Jamie", "Taylor", "Drew", "Shawn", "Lee",
}

var lastNames = []string{
	"Reyes", "Novak", "Larsen", "Okafor", "Tanaka", "Silva", "Keller",
	"Moreau", "Petrov", "Lindgren", "Costa", "Varga", "Ito", "Brandt",
}

// Generator produces customers and owns the active set for their visit.
type Generator struct {
	cat     *catalog.Catalog
	player  *state.PlayerState
	bus     *events.Bus
	rng     *rand.Rand
	weights Weights

	active map[string]*Customer
	order  []string // active ids in arrival order
}

// NewGenerator creates a customer generator seeded for reproducible draws.
func NewGenerator(cat *catalog.Catalog, player *state.PlayerState, bus *events.Bus, seed int64, w Weights) *Generator {
	if w.total() <= 0 {
		w = DefaultWeights()
	}
	return &Generator{
		cat:     cat,
		player:  player,
		bus:     bus,
		rng:     rand.New(rand.NewSource(seed)),
		weights: w,
		active:  make(map[string]*Customer),
	}
}

// Generate creates a customer: a weighted type draw, a type-seeded budget
// and needs profile, and a 30% chance of an attached backstory.
func (g *Generator) Generate() *Customer {
	c := &Customer{
		ID:           uuid.NewString(),
		Name:         g.generateName(),
		Type:         g.rollType(),
		State:        StateEntering,
		Satisfaction: 50,
		Patience:     100,
	}

	g.configureByType(c)
	g.tryAssignStory(c)

	g.active[c.ID] = c
	g.order = append(g.order, c.ID)

	g.bus.Publish(events.TypeCustomerEntered, events.CustomerEntered{
		CustomerID: c.ID,
		Name:       c.Name,
		Type:       string(c.Type),
	})
	return c
}

// rollType maps a uniform draw over the weight sum onto the first cumulative
// bucket it falls under, in fixed order.
func (g *Generator) rollType() Type {
	w := g.weights
	roll := g.rng.Intn(w.total())

	if roll < w.Student {
		return Student
	}
	if roll < w.Student+w.Commuter {
		return Commuter
	}
	if roll < w.Student+w.Commuter+w.Enthusiast {
		return Enthusiast
	}
	if roll < w.Student+w.Commuter+w.Enthusiast+w.Racer {
		return Racer
	}
	return Influencer
}

// configureByType seeds the budget and needs profile from the fixed
// type table.
func (g *Generator) configureByType(c *Customer) {
	budget := func(lo, hi int) int {
		c.Needs.MinBudget = lo
		c.Needs.MaxBudget = hi
		return lo + g.rng.Intn(hi-lo)
	}

	switch c.Type {
	case Student:
		c.Budget = budget(1500, 5000)
		c.Needs.ForBeginners = true
		c.Needs.PreferredTier = catalog.TierEntry
	case Commuter:
		c.Budget = budget(2000, 8000)
		c.Needs.ForCommuting = true
		c.Needs.PreferredMaterial = catalog.MaterialAluminum
	case Enthusiast:
		c.Budget = budget(5000, 30000)
		c.Needs.ForTraining = true
		c.Needs.PreferredTier = catalog.TierMid
	case Racer:
		c.Budget = budget(20000, 100000)
		c.Needs.ForRacing = true
		c.Needs.PreferredTier = catalog.TierPro
	case Influencer:
		c.Budget = budget(8000, 50000)
		c.Needs.HighVisual = true
		c.Needs.PreferredColor = "white"
	}
}

// tryAssignStory attaches a backstory with fixed probability, drawn
// uniformly among stories targeting the customer's type.
func (g *Generator) tryAssignStory(c *Customer) {
	if g.rng.Float64() > storyChance {
		return
	}
	stories := g.cat.StoriesFor(string(c.Type))
	if len(stories) == 0 {
		return
	}
	c.StoryID = stories[g.rng.Intn(len(stories))].ID
}

func (g *Generator) generateName() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Get returns an active customer by id.
func (g *Generator) Get(id string) (*Customer, bool) {
	c, ok := g.active[id]
	return c, ok
}

// Active returns the active customers in arrival order.
func (g *Generator) Active() []*Customer {
	out := make([]*Customer, 0, len(g.order))
	for _, id := range g.order {
		if c, ok := g.active[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of customers currently in the shop.
func (g *Generator) Count() int { return len(g.active) }

// Interact advances a customer through the conversation flow. A recommend
// or repair choice moves them from asking to deciding.
func (g *Generator) Interact(c *Customer, choice string) {
	c.State = StateAsking
	if choice == "recommend" || choice == "repair" {
		c.State = StateDeciding
	}
}

// BeginPurchase moves a deciding customer to the register.
func (g *Generator) BeginPurchase(c *Customer) error {
	if c.State != StateDeciding {
		return fmt.Errorf("begin purchase: customer %s is %s: %w", c.ID, c.State, ErrCustomerState)
	}
	c.State = StatePurchasing
	return nil
}

// Recommend pitches an item. An over-budget item costs 10 satisfaction;
// independently the match score applies its own tiered delta, so a poor,
// unaffordable pitch compounds.
func (g *Generator) Recommend(c *Customer, item *catalog.Item) Recommendation {
	rec := Recommendation{
		ItemID:     item.ID,
		MatchScore: MatchScore(c, item),
	}

	if item.SellPrice > c.Budget {
		rec.OverBudget = true
		rec.BudgetShortfall = item.SellPrice - c.Budget
		rec.SatisfactionDelta -= 10
	}

	switch {
	case rec.MatchScore >= 80:
		rec.SatisfactionDelta += 20
		rec.Feedback = "Perfect, exactly what I was looking for!"
	case rec.MatchScore >= 50:
		rec.SatisfactionDelta += 10
		rec.Feedback = "Not bad, I could consider it."
	default:
		rec.SatisfactionDelta -= 15
		rec.Feedback = "This doesn't really seem like my kind of bike..."
	}

	c.Satisfaction = clampSatisfaction(c.Satisfaction + rec.SatisfactionDelta)
	return rec
}

// CompleteTransaction closes a sale for a customer at the register. It
// reveals and rewards an attached story exactly once, grants the influencer
// fan bonus, and removes the customer from the shop.
func (g *Generator) CompleteTransaction(c *Customer) error {
	if c.State != StatePurchasing {
		return fmt.Errorf("complete transaction: customer %s is %s: %w", c.ID, c.State, ErrCustomerState)
	}

	c.State = StateSatisfied
	c.Satisfaction = clampSatisfaction(c.Satisfaction + 10)

	if c.StoryID != "" && !c.StoryRevealed {
		for _, s := range g.cat.Stories {
			if s.ID == c.StoryID {
				c.StoryRevealed = true
				g.player.AddReputation(s.ReputationBonus)
				g.bus.Publish(events.TypeReputationChanged, events.ReputationChanged{Reputation: g.player.Reputation})
				g.bus.Publish(events.TypeStoryRevealed, events.StoryRevealed{
					StoryID:         s.ID,
					Title:           s.Title,
					ReputationBonus: s.ReputationBonus,
				})
				break
			}
		}
	}

	if c.Type == Influencer {
		g.player.FansCount += 50
	}

	g.remove(c.ID)
	g.bus.Publish(events.TypeTransactionComplete, events.TransactionComplete{CustomerID: c.ID, Success: true})
	g.bus.Publish(events.TypeCustomerLeft, events.CustomerLeft{CustomerID: c.ID, Satisfied: true})
	return nil
}

// Abandon sends a customer away unsatisfied, at a fixed reputation cost.
func (g *Generator) Abandon(c *Customer) {
	c.State = StateUnsatisfied
	g.player.AddReputation(-5)
	g.bus.Publish(events.TypeReputationChanged, events.ReputationChanged{Reputation: g.player.Reputation})

	g.remove(c.ID)
	g.bus.Publish(events.TypeTransactionComplete, events.TransactionComplete{CustomerID: c.ID, Success: false})
	g.bus.Publish(events.TypeCustomerLeft, events.CustomerLeft{CustomerID: c.ID, Satisfied: false})
}

func (g *Generator) remove(id string) {
	delete(g.active, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Reset clears the active set. Used on new game.
func (g *Generator) Reset() {
	g.active = make(map[string]*Customer)
	g.order = nil
}
