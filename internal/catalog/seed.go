package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
)

// seedProducts is the launch catalog: four lab-grown diamonds. Seeding is
// skipped once any product exists so admin edits survive restarts.
var seedProducts = []models.Product{
	{
		SKU:         "NEEV-R01",
		Name:        "Round Brilliant 1.0 ct",
		Category:    "Round",
		Description: "Lab-grown round brilliant, 1.0 carat, VS1 clarity, F colour.",
		Price:       decimal.NewFromInt(24999),
		Stock:       5,
	},
	{
		SKU:         "NEEV-P01",
		Name:        "Princess Cut 0.9 ct",
		Category:    "Princess",
		Description: "Lab-grown princess cut, 0.9 carat, VS2 clarity, G colour.",
		Price:       decimal.NewFromInt(21999),
		Stock:       4,
	},
	{
		SKU:         "NEEV-O01",
		Name:        "Oval 1.2 ct",
		Category:    "Oval",
		Description: "Lab-grown oval, 1.2 carat, VVS2 clarity, E colour.",
		Price:       decimal.NewFromInt(32999),
		Stock:       3,
	},
	{
		SKU:         "NEEV-E01",
		Name:        "Emerald Cut 1.1 ct",
		Category:    "Emerald",
		Description: "Lab-grown emerald cut, 1.1 carat, VS1 clarity, F colour.",
		Price:       decimal.NewFromInt(28999),
		Stock:       3,
	},
}

// SeedIfEmpty inserts the launch catalog when the products table is empty.
func SeedIfEmpty(ctx context.Context, repo *Repository) (int, error) {
	if repo == nil {
		return 0, fmt.Errorf("catalog repository required")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for i := range seedProducts {
		product := seedProducts[i]
		if _, err := repo.Create(ctx, &product); err != nil {
			return seeded, fmt.Errorf("seeding product %s: %w", product.SKU, err)
		}
		seeded++
	}
	return seeded, nil
}
