package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/container"
	handlers "github.com/andikasp/gocommerce/internal/interface/http"
	"github.com/andikasp/gocommerce/internal/interface/middleware"
	"github.com/andikasp/gocommerce/pkg/helpers"
)

type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	// Public catalog, rate limited per IP
	listLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/product/list", listLimiter, m.Handler.List)
	rg.POST("/product/single", listLimiter, m.Handler.Single)
	rg.GET("/product/search", searchLimiter, m.Handler.Search)

	// Admin mutations
	admin := rg.Group("/")
	admin.Use(middleware.Admin(m.JWT, container.GetConfig().AdminEmail))
	{
		admin.POST("/product/add", m.Handler.Add)
		admin.POST("/product/remove", m.Handler.Remove)
	}
}
