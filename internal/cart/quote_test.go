package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
)

var surcharge = decimal.NewFromInt(999)

func testProduct(name, price string, stock int) *models.Product {
	return &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func TestBuildQuoteEmptyCart(t *testing.T) {
	quote := BuildQuote(NewState(), nil, surcharge)
	require.Empty(t, quote.Lines)
	require.Equal(t, "0.00", quote.Total)
	require.Zero(t, quote.Count)
}

func TestBuildQuoteSumsLines(t *testing.T) {
	round := testProduct("Round Brilliant 1.0 ct", "24999", 5)
	oval := testProduct("Oval 1.2 ct", "32999", 3)

	state := NewState()
	state.Items[round.ID.String()] = 2
	state.Items[oval.ID.String()] = 1

	quote := BuildQuote(state, map[string]*models.Product{
		round.ID.String(): round,
		oval.ID.String():  oval,
	}, surcharge)

	require.Len(t, quote.Lines, 2)
	require.Equal(t, 3, quote.Count)
	require.Equal(t, "82997.00", quote.Subtotal)
	require.Equal(t, "82997.00", quote.Total)
	require.Equal(t, "0.00", quote.Surcharge)
}

func TestBuildQuotePremiumSurcharge(t *testing.T) {
	round := testProduct("Round Brilliant 1.0 ct", "24999", 5)

	state := NewState()
	state.Items[round.ID.String()] = 2
	state.Premium = true

	quote := BuildQuote(state, map[string]*models.Product{round.ID.String(): round}, surcharge)
	require.Equal(t, "49998.00", quote.Subtotal)
	require.Equal(t, "999.00", quote.Surcharge)
	require.Equal(t, "50997.00", quote.Total)
}

func TestBuildQuotePremiumOnEmptyCartHasNoSurcharge(t *testing.T) {
	state := NewState()
	state.Premium = true

	quote := BuildQuote(state, nil, surcharge)
	require.Equal(t, "0.00", quote.Total)
	require.Equal(t, "0.00", quote.Surcharge)
}

func TestBuildQuoteDropsDeletedProducts(t *testing.T) {
	round := testProduct("Round Brilliant 1.0 ct", "24999", 5)

	state := NewState()
	state.Items[round.ID.String()] = 1
	state.Items[uuid.NewString()] = 3 // product no longer in catalog

	quote := BuildQuote(state, map[string]*models.Product{round.ID.String(): round}, surcharge)
	require.Len(t, quote.Lines, 1)
	require.Equal(t, "24999.00", quote.Total)
}

func TestBuildQuoteDropsNonPositiveQuantities(t *testing.T) {
	round := testProduct("Round Brilliant 1.0 ct", "24999", 5)

	state := NewState()
	state.Items[round.ID.String()] = 0

	quote := BuildQuote(state, map[string]*models.Product{round.ID.String(): round}, surcharge)
	require.Empty(t, quote.Lines)
}

func TestStateIsEmpty(t *testing.T) {
	require.True(t, NewState().IsEmpty())
	require.True(t, (*State)(nil).IsEmpty())

	state := NewState()
	state.Items["x"] = 1
	require.False(t, state.IsEmpty())
}
