// Package recipe provides the recipe deck: an in-memory store, the demo
// cards, and reference lookup for the command line.
package recipe

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeStore = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent access.
// Returned recipes are copies; mutate and Save them back.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates an empty recipe source.
func NewMemorySource(log *logger.Logger) *MemorySource {
	return &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
}

// NewSeededMemorySource creates a recipe source preloaded with the demo cards.
func NewSeededMemorySource(log *logger.Logger) *MemorySource {
	src := NewMemorySource(log)
	for _, r := range DemoRecipes() {
		src.recipes[r.ID] = clone(&r)
	}
	return src
}

// List returns all recipes ordered by deck position.
func (s *MemorySource) List(ctx context.Context) ([]domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, *clone(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return clone(r), nil
}

// Save inserts or replaces a recipe.
func (s *MemorySource) Save(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes[recipe.ID] = clone(recipe)
	s.log.Debug("recipe saved: %s (cooked=%d, mean=%ds)", recipe.Name, recipe.TimesCooked, recipe.MeanDurationSeconds)
	return nil
}

// Delete removes a recipe by ID.
func (s *MemorySource) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recipes, id)
	return nil
}

func clone(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Ingredients = append([]domain.Ingredient(nil), r.Ingredients...)
	c.Steps = append([]domain.Step(nil), r.Steps...)
	return &c
}
