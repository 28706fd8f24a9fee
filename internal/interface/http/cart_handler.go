package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/pkg/response"
	"github.com/andikasp/gocommerce/pkg/validation"
)

type CartHandler struct {
	Svc *application.CartService
}

func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{Svc: svc}
}

// Get POST /api/cart/get (auth required)
// Returns the raw nested map so the storefront can hydrate it directly.
func (h *CartHandler) Get(c *gin.Context) {
	uid := c.GetString("userID")
	cart, err := h.Svc.GetCart(c.Request.Context(), uid)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart_data": cart}, "cart", nil)
}

// Add POST /api/cart/add {product_id, size} (auth required)
func (h *CartHandler) Add(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Size      string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	cart, err := h.Svc.AddItem(c.Request.Context(), uid, req.ProductID, req.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart_data": cart}, "added to cart", nil)
}

// Update POST /api/cart/update {product_id, size, quantity} (auth required)
// Quantity of zero or less removes the entry.
func (h *CartHandler) Update(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	cart, err := h.Svc.UpdateItem(c.Request.Context(), uid, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart_data": cart}, "cart updated", nil)
}

// Remove DELETE /api/cart/remove {product_id, size} (auth required)
// Empty size removes every size of the product.
func (h *CartHandler) Remove(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Size      string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	cart, err := h.Svc.RemoveItem(c.Request.Context(), uid, req.ProductID, req.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart_data": cart}, "removed from cart", nil)
}
