package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
)

// QuoteLine is one priced cart line.
type QuoteLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Qty       int    `json:"qty"`
	LineTotal string `json:"line_total"`
	Stock     int    `json:"stock"`
}

// Quote is the priced view of a cart at current catalog prices.
type Quote struct {
	Lines     []QuoteLine `json:"lines"`
	Subtotal  string      `json:"subtotal"`
	Premium   bool        `json:"premium"`
	Surcharge string      `json:"surcharge"`
	Total     string      `json:"total"`
	Count     int         `json:"count"`
}

// BuildQuote prices the cart against the current catalog. Lines whose
// product no longer exists, or with a non-positive quantity, are dropped
// silently; the cart never fails to price. The premium surcharge applies
// once per order when the flag is set.
func BuildQuote(state *State, products map[string]*models.Product, surcharge decimal.Decimal) Quote {
	quote := Quote{
		Lines:     []QuoteLine{},
		Premium:   state != nil && state.Premium,
		Subtotal:  "0.00",
		Surcharge: "0.00",
		Total:     "0.00",
	}
	if state == nil {
		return quote
	}

	ids := make([]string, 0, len(state.Items))
	for id := range state.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	subtotal := decimal.Zero
	for _, id := range ids {
		qty := state.Items[id]
		if qty <= 0 {
			continue
		}
		product, ok := products[id]
		if !ok || product == nil {
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		subtotal = subtotal.Add(lineTotal)
		quote.Count += qty
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: id,
			Name:      product.Name,
			Price:     product.Price.StringFixed(2),
			Qty:       qty,
			LineTotal: lineTotal.StringFixed(2),
			Stock:     product.Stock,
		})
	}

	total := subtotal
	if quote.Premium && len(quote.Lines) > 0 {
		quote.Surcharge = surcharge.StringFixed(2)
		total = total.Add(surcharge)
	}

	quote.Subtotal = subtotal.StringFixed(2)
	quote.Total = total.StringFixed(2)
	return quote
}
