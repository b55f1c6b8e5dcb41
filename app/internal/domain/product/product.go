package product

import (
	"encoding/json"
	"net/url"

	domcategory "github.com/deep1161/djMART/app/internal/domain/category"
	"github.com/deep1161/djMART/app/internal/jsonx"
)

type Product struct {
	ID          string               `json:"_id" validate:"required"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	Category    domcategory.Category `json:"category"`

	// Extra holds every other field the catalog sends (stock, shipping,
	// timestamps...). It is written back unchanged, so a cart snapshot
	// carries the full product.
	Extra map[string]json.RawMessage `json:"-"`
}

type productJSON Product

var productKeys = []string{"_id", "name", "slug", "description", "price", "category"}

func (p Product) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(productJSON(p), p.Extra)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var fields productJSON
	extra, err := jsonx.Split(data, &fields, productKeys...)
	if err != nil {
		return err
	}
	fields.Extra = extra
	*p = Product(fields)
	return nil
}

func (p Product) IsZero() bool {
	return p.ID == ""
}

// PhotoPath is the storefront URL the product photo is served from.
func PhotoPath(id string) string {
	return "/api/v1/product/product-photo/" + url.PathEscape(id)
}

// DetailPath is the navigation target of a product detail page.
func DetailPath(slug string) string {
	return "/product/" + url.PathEscape(slug)
}
