package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/container"
	handlers "github.com/andikasp/gocommerce/internal/interface/http"
	"github.com/andikasp/gocommerce/internal/interface/middleware"
	"github.com/andikasp/gocommerce/pkg/helpers"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	// Checkout gets a tight per-user limit, listing a softer one
	placeLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)
	listLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/order/place", placeLimiter, m.Handler.PlaceCOD)
		auth.POST("/order/razorpay", placeLimiter, m.Handler.PlaceRazorpay)
		auth.POST("/order/verifyRazorpay", placeLimiter, m.Handler.VerifyRazorpay)
		auth.POST("/order/userorders", listLimiter, m.Handler.UserOrders)
	}

	admin := rg.Group("/")
	admin.Use(middleware.Admin(m.JWT, container.GetConfig().AdminEmail))
	{
		admin.POST("/order/list", m.Handler.List)
		admin.POST("/order/status", m.Handler.UpdateStatus)
	}
}
