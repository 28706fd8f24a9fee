package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/container"
	handlers "github.com/andikasp/gocommerce/internal/interface/http"
	"github.com/andikasp/gocommerce/internal/interface/middleware"
	"github.com/andikasp/gocommerce/pkg/helpers"
)

type CartModule struct {
	Handler *handlers.CartHandler
	JWT     *helpers.JWTManager
}

func NewCartModule(h *handlers.CartHandler, jwt *helpers.JWTManager) *CartModule {
	return &CartModule{Handler: h, JWT: jwt}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/cart/get", m.Handler.Get)
		auth.POST("/cart/add", m.Handler.Add)
		auth.POST("/cart/update", m.Handler.Update)
		auth.DELETE("/cart/remove", m.Handler.Remove)
	}
}
