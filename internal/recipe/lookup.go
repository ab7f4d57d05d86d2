package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

// Lookup resolves a user-supplied reference to a recipe. The reference may
// be an ID, a 1-based deck number as printed by the list view, or a name
// (case-insensitive).
func Lookup(ctx context.Context, store domain.RecipeStore, ref string) (*domain.Recipe, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty recipe reference: %w", domain.ErrNotFound)
	}

	if r, err := store.Get(ctx, ref); err == nil {
		return r, nil
	}

	all, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(all) {
			return &all[n-1], nil
		}
		return nil, fmt.Errorf("no recipe number %d: %w", n, domain.ErrNotFound)
	}

	for i := range all {
		if strings.EqualFold(all[i].Name, ref) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("recipe %q: %w", ref, domain.ErrNotFound)
}
