package catalog

import (
	"time"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
)

// ProductDTO is the storefront-facing projection of a product.
type ProductDTO struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	InStock     bool      `json:"in_stock"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *toProductDTO(&products[i]))
	}
	return out
}
