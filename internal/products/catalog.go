package products

import (
	"fmt"
	"strings"

	"storefront/internal/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog owns the items and their stock counters. It is not safe for
// concurrent use; shop.Engine serializes access behind its own lock.
type Catalog struct {
	items []Item
	newID func() string
}

// NewCatalog builds a catalog from previously persisted items, keeping their order.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{
		items: make([]Item, len(items)),
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	copy(c.items, items)
	return c
}

// Default is the built-in catalog used on a fresh install.
func Default() []Item {
	return []Item{
		{ID: "1", Title: "Шипучка", Price: decimal.NewFromInt(2), Description: "Освіжаюча шипучка", Stock: 15, Img: PlaceholderImg, Active: true},
		{ID: "2", Title: "Player Kicker", Price: decimal.NewFromInt(1), Description: "Програма для викиду гравців", Stock: 8, Img: "/images/icon.svg", Active: true},
	}
}

// Add validates and appends a new item with a fresh id.
func (c *Catalog) Add(in NewItem) (Item, error) {
	if strings.TrimSpace(in.Title) == "" || in.Price == nil {
		return Item{}, apperr.New(apperr.ErrValidation, "title and price required")
	}
	if in.Price.IsNegative() {
		return Item{}, apperr.New(apperr.ErrValidation, "price must not be negative")
	}
	it := Item{
		ID:          c.newID(),
		Title:       in.Title,
		Price:       *in.Price,
		Description: in.Description,
		Img:         in.Img,
		Active:      true,
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return Item{}, apperr.New(apperr.ErrValidation, "stock must not be negative")
		}
		it.Stock = *in.Stock
	}
	if it.Img == "" {
		it.Img = PlaceholderImg
	}
	if in.Active != nil {
		it.Active = *in.Active
	}
	c.items = append(c.items, it)
	return it, nil
}

// Update applies the present fields of p to the item with the given id.
func (c *Catalog) Update(id string, p Patch) (Item, error) {
	idx := c.index(id)
	if idx < 0 {
		return Item{}, apperr.New(apperr.ErrNotFound, "item not found")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return Item{}, apperr.New(apperr.ErrValidation, "price must not be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return Item{}, apperr.New(apperr.ErrValidation, "stock must not be negative")
	}

	it := &c.items[idx]
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Stock != nil {
		it.Stock = *p.Stock
	}
	if p.Img != nil {
		it.Img = *p.Img
	}
	if p.Active != nil {
		it.Active = *p.Active
	}
	return *it, nil
}

// Remove deletes the item and returns the removed record.
func (c *Catalog) Remove(id string) (Item, error) {
	idx := c.index(id)
	if idx < 0 {
		return Item{}, apperr.New(apperr.ErrNotFound, "item not found")
	}
	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return removed, nil
}

// AdjustStock adds delta to the item's stock. It refuses to go below zero and
// leaves the item untouched in that case.
func (c *Catalog) AdjustStock(id string, delta int) (Item, error) {
	idx := c.index(id)
	if idx < 0 {
		return Item{}, apperr.New(apperr.ErrNotFound, "item not found")
	}
	it := &c.items[idx]
	if it.Stock+delta < 0 {
		return Item{}, fmt.Errorf("adjust stock of %s by %d: %w", id, delta, &apperr.InsufficientStockError{Available: it.Stock})
	}
	it.Stock += delta
	return *it, nil
}

// Get returns a copy of the item.
func (c *Catalog) Get(id string) (Item, bool) {
	idx := c.index(id)
	if idx < 0 {
		return Item{}, false
	}
	return c.items[idx], true
}

// List returns a copy of all items in insertion order.
func (c *Catalog) List() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of items.
func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
