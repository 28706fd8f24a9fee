package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/pkg/response"
)

type UserHandler struct {
	Svc *application.AuthService
}

func NewUserHandler(svc *application.AuthService) *UserHandler {
	return &UserHandler{Svc: svc}
}

// Data GET /api/user/data (auth required)
func (h *UserHandler) Data(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"name":                u.Name,
		"email":               u.Email,
		"is_account_verified": u.IsAccountVerified,
	}, "user data", nil)
}
