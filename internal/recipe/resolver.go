// Package recipe maps menu items to the ingredients one unit of them consumes.
package recipe

import (
	"context"

	"dinesight-backend/internal/catalog"

	"github.com/shopspring/decimal"
)

// Requirement is one recipe line: QuantityPerUnit of IngredientID per unit sold.
type Requirement struct {
	LineID          uint
	IngredientID    uint
	QuantityPerUnit float64
}

type Resolver struct {
	store *catalog.Store
}

func NewResolver(store *catalog.Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) WithStore(s *catalog.Store) *Resolver {
	return &Resolver{store: s}
}

// RequirementsFor reads the recipe lines of a menu item on every call. An item
// without lines yields an empty slice and no error. Lines whose ingredient was
// deleted are still returned.
func (r *Resolver) RequirementsFor(ctx context.Context, menuItemID uint) ([]Requirement, error) {
	lines, err := r.store.ListRecipeLines(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	reqs := make([]Requirement, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, Requirement{
			LineID:          l.ID,
			IngredientID:    l.IngredientID,
			QuantityPerUnit: l.QuantityUsed,
		})
	}
	return reqs, nil
}

// Totals folds requirements for qty units into one amount per ingredient, keeping
// the order in which each ingredient first appears. Amounts are exact decimals, so
// 0.1 + 0.2 is 0.3.
func Totals(reqs []Requirement, qty int) (ids []uint, amounts map[uint]decimal.Decimal) {
	amounts = make(map[uint]decimal.Decimal, len(reqs))
	units := decimal.NewFromInt(int64(qty))
	for _, r := range reqs {
		sum, seen := amounts[r.IngredientID]
		if !seen {
			ids = append(ids, r.IngredientID)
		}
		amounts[r.IngredientID] = sum.Add(decimal.NewFromFloat(r.QuantityPerUnit).Mul(units))
	}
	return ids, amounts
}
