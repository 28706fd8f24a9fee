package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/internal/domain/entity"
	"github.com/andikasp/gocommerce/pkg/response"
	"github.com/andikasp/gocommerce/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type addressReq struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

func (r addressReq) toEntity() entity.Address {
	return entity.Address{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Street:    r.Street,
		City:      r.City,
		State:     r.State,
		Zipcode:   r.Zipcode,
		Country:   r.Country,
		Phone:     r.Phone,
	}
}

// PlaceCOD POST /api/order/place {address} (auth required)
func (h *OrderHandler) PlaceCOD(c *gin.Context) {
	var req struct {
		Address addressReq `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	res, err := h.Svc.PlaceCOD(c.Request.Context(), uid, req.Address.toEntity())
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "order placed", nil)
}

// PlaceRazorpay POST /api/order/razorpay {address} (auth required)
func (h *OrderHandler) PlaceRazorpay(c *gin.Context) {
	var req struct {
		Address addressReq `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	res, err := h.Svc.PlaceRazorpay(c.Request.Context(), uid, req.Address.toEntity())
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "order created", nil)
}

// VerifyRazorpay POST /api/order/verifyRazorpay {razorpay_order_id} (auth required)
func (h *OrderHandler) VerifyRazorpay(c *gin.Context) {
	var req struct {
		RazorpayOrderID string `json:"razorpay_order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	o, err := h.Svc.ConfirmRazorpay(c.Request.Context(), uid, req.RazorpayOrderID)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o}, "payment confirmed", nil)
}

// UserOrders POST /api/order/userorders (auth required)
func (h *OrderHandler) UserOrders(c *gin.Context) {
	uid := c.GetString("userID")
	orders, err := h.Svc.UserOrders(c.Request.Context(), uid)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders}, "orders", nil)
}

// List POST /api/order/list (admin)
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.Svc.AllOrders(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders}, "all orders", nil)
}

// UpdateStatus POST /api/order/status {order_id, status} (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id" binding:"required"`
		Status  string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o}, "status updated", nil)
}
