package handlers

import (
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/products"

	"github.com/gin-gonic/gin"
)

func (h *handler) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.e.Items())
}

func (h *handler) AddItem(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	in := products.NewItem{
		Title:       b.str("title"),
		Description: b.str("description"),
		Img:         b.str("img"),
	}
	if b.has("price") {
		price, err := toDecimal("price", b["price"])
		if err != nil {
			respondError(c, err)
			return
		}
		in.Price = &price
	}
	if b.has("stock") {
		stock, err := toInt("stock", b["stock"])
		if err != nil {
			respondError(c, err)
			return
		}
		in.Stock = &stock
	}
	if b.has("active") {
		active := toBool(b["active"])
		in.Active = &active
	}

	it, err := h.e.AddItem(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": it})
}

func (h *handler) UpdateItem(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id := b.str("id")
	if id == "" {
		respondError(c, apperr.New(apperr.ErrValidation, "id required"))
		return
	}

	p, err := patchFrom(b)
	if err != nil {
		respondError(c, err)
		return
	}
	it, err := h.e.UpdateItem(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": it})
}

func patchFrom(b body) (products.Patch, error) {
	var p products.Patch
	if b.has("title") {
		title := b.str("title")
		p.Title = &title
	}
	if b.has("description") {
		desc := b.str("description")
		p.Description = &desc
	}
	if b.has("img") {
		img := b.str("img")
		p.Img = &img
	}
	if b.has("price") {
		price, err := toDecimal("price", b["price"])
		if err != nil {
			return p, err
		}
		p.Price = &price
	}
	if b.has("stock") {
		stock, err := toInt("stock", b["stock"])
		if err != nil {
			return p, err
		}
		p.Stock = &stock
	}
	if b.has("active") {
		active := toBool(b["active"])
		p.Active = &active
	}
	return p, nil
}

func (h *handler) DeleteItem(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	req := struct {
		ID string `validate:"required"`
	}{ID: b.str("id")}
	if err := h.validate.Struct(req); err != nil {
		respondError(c, apperr.New(apperr.ErrValidation, "id required"))
		return
	}

	removed, err := h.e.RemoveItem(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": removed})
}
