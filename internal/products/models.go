package products

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, the shape the storefront clients and the
	// persisted items.json already use.
	decimal.MarshalJSONWithoutQuotes = true
}

// PlaceholderImg is used when an item is added without an image reference.
const PlaceholderImg = "/images/orbital.svg"

// Item is a catalog entry with its available stock.
type Item struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	Img         string          `json:"img"`
	Active      bool            `json:"active"`
}

// NewItem is the input of Catalog.Add. Nil pointers mean "not supplied".
type NewItem struct {
	Title       string
	Price       *decimal.Decimal
	Description string
	Stock       *int
	Img         string
	Active      *bool
}

// Patch lists the fields an update touches; nil fields are left alone.
type Patch struct {
	Title       *string
	Price       *decimal.Decimal
	Description *string
	Stock       *int
	Img         *string
	Active      *bool
}
