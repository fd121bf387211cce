package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		SKU:         "NEEV-T01",
		Name:        "Round Brilliant 1.0 ct",
		Category:    "Round",
		Description: "test stone",
		Price:       decimal.NewFromInt(24999),
		Stock:       5,
	})
	require.NoError(t, err)
	require.Equal(t, "24999.00", created.Price)
	require.True(t, created.InStock)

	fetched, err := svc.Get(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	require.Equal(t, "NEEV-T01", fetched.SKU)
}

func TestCreateRejectsNonPositivePrice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "Free Stone",
		Price: decimal.Zero,
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{SKU: "NEEV-DUP", Name: "One", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProductInput{SKU: "NEEV-DUP", Name: "Two", Price: decimal.NewFromInt(200)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestGetMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListFiltersBySearchAndCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "Round Brilliant", Category: "Round", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductInput{Name: "Oval Cut", Category: "Oval", Price: decimal.NewFromInt(200)})
	require.NoError(t, err)

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	byTerm, err := svc.List(ctx, "round", "")
	require.NoError(t, err)
	require.Len(t, byTerm, 1)
	require.Equal(t, "Round Brilliant", byTerm[0].Name)

	byCategory, err := svc.List(ctx, "", "Oval")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	none, err := svc.List(ctx, "pear", "")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Name: "Stone", Price: decimal.NewFromInt(100), Stock: 1})
	require.NoError(t, err)

	newName := "Renamed Stone"
	newStock := 7
	updated, err := svc.Update(ctx, uuid.MustParse(created.ID), UpdateProductInput{Name: &newName, Stock: &newStock})
	require.NoError(t, err)
	require.Equal(t, "Renamed Stone", updated.Name)
	require.Equal(t, 7, updated.Stock)
	// untouched fields survive
	require.Equal(t, created.Price, updated.Price)
}

func TestUpdateRejectsNegativeStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Name: "Stone", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	bad := -1
	_, err = svc.Update(ctx, uuid.MustParse(created.ID), UpdateProductInput{Stock: &bad})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Name: "Stone", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.Get(ctx, id)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDecrementStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Name: "Stone", Price: decimal.NewFromInt(100), Stock: 2})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	ok, err := repo.DecrementStock(ctx, id, 2)
	require.NoError(t, err)
	require.True(t, ok)

	// stock exhausted, further decrements refuse
	ok, err = repo.DecrementStock(ctx, id, 1)
	require.NoError(t, err)
	require.False(t, ok)

	fetched, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 0, fetched.Stock)
	require.False(t, fetched.InStock)
}

func TestSeedIfEmpty(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seeded, err := SeedIfEmpty(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, 4, seeded)

	// second run is a no-op
	seeded, err = SeedIfEmpty(ctx, repo)
	require.NoError(t, err)
	require.Zero(t, seeded)

	products, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, products, 4)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 4)
}
