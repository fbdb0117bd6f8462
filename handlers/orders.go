package handlers

import (
	"net/http"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/shop"

	"github.com/gin-gonic/gin"
)

func (h *handler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.e.Orders())
}

func (h *handler) MyOrders(c *gin.Context) {
	mine, err := h.e.OrdersForBuyer(c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mine)
}

func (h *handler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.e.Summary())
}

func (h *handler) SubmitOrder(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.e.SubmitOrder(c.Request.Context(), shop.OrderRequest{
		Name:      b.str("name"),
		ItemID:    b.str("itemId"),
		Quantity:  toFloat(b["quantity"]),
		Requester: c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

func (h *handler) ApproveOrder(c *gin.Context) {
	o, err := h.e.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

func (h *handler) RejectOrder(c *gin.Context) {
	o, err := h.e.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

// CancelOrder takes the reason from the body or, failing that, the query string.
func (h *handler) CancelOrder(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	req := struct {
		Reason string `validate:"max=500"`
	}{Reason: strings.TrimSpace(b.str("reason"))}
	if req.Reason == "" {
		req.Reason = strings.TrimSpace(c.Query("reason"))
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(c, apperr.New(apperr.ErrValidation, "reason is too long"))
		return
	}

	o, err := h.e.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

func (h *handler) ClearOrders(c *gin.Context) {
	h.e.ClearAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
