package recipe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

// deckNamespace scopes name-based recipe IDs so the demo cards get the
// same ID on every machine.
var deckNamespace = uuid.MustParse("6f1c7a52-3b8e-4c1d-9a57-2e0d4b6f8c31")

// NewID returns a fresh random recipe ID.
func NewID() string {
	return uuid.NewString()
}

// StableID derives a deterministic ID from a recipe name.
func StableID(name string) string {
	return uuid.NewSHA1(deckNamespace, []byte(name)).String()
}

// DemoRecipes returns the cards a fresh deck starts with.
func DemoRecipes() []domain.Recipe {
	return []domain.Recipe{
		{
			ID:    StableID("Pizza"),
			Index: 0,
			Name:  "Pizza",
			Ingredients: []domain.Ingredient{
				{Name: "Flour", Count: "300 g"},
				{Name: "Pork", Count: "150 g", Comment: "sliced thin"},
				{Name: "Tomato sauce", Count: "4 tbsp"},
				{Name: "Mozzarella", Count: "1 ball"},
			},
			Steps: []domain.Step{
				{Instruction: "Knead the dough and let it rest", Alarm: 30 * time.Minute},
				{Instruction: "Cook the pork in a hot pan"},
				{Instruction: "Top the dough and bake", Alarm: 12 * time.Minute},
			},
		},
		{
			ID:    StableID("Spaghetti"),
			Index: 1,
			Name:  "Spaghetti",
			Ingredients: []domain.Ingredient{
				{Name: "Spaghetti", Count: "200 g"},
				{Name: "Pork", Count: "100 g", Comment: "minced"},
				{Name: "Sauce", Count: "1 jar"},
			},
			Steps: []domain.Step{
				{Instruction: "Boil the spaghetti in salted water", Alarm: 9 * time.Minute},
				{Instruction: "Cook the pork until browned"},
				{Instruction: "Stir in the sauce and combine", Alarm: 3 * time.Minute},
			},
		},
	}
}

// Seed installs the demo cards into an empty store. It returns the number
// of recipes added; a store that already has recipes is left alone.
func Seed(ctx context.Context, store domain.RecipeStore) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing recipes: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	demo := DemoRecipes()
	for i := range demo {
		if err := store.Save(ctx, &demo[i]); err != nil {
			return i, fmt.Errorf("saving %s: %w", demo[i].Name, err)
		}
	}
	return len(demo), nil
}
