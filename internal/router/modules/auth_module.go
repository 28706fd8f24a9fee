package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/container"
	handlers "github.com/andikasp/gocommerce/internal/interface/http"
	"github.com/andikasp/gocommerce/internal/interface/middleware"
	"github.com/andikasp/gocommerce/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	resetSendLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.POST("/auth/admin", loginLimiter, m.Handler.AdminLogin)
	rg.POST("/auth/send-reset-otp", resetSendLimiter, m.Handler.SendResetOTP)
	rg.POST("/auth/reset-password", resetLimiter, m.Handler.ResetPassword)

	// Protected OTP endpoints with tight user-based rate limits
	otp := rg.Group("/")
	otp.Use(middleware.Auth(container.GetRedis(), m.JWT))
	otp.Use(middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil))
	{
		otp.POST("/auth/send-verify-otp", m.Handler.SendVerifyOTP)
		otp.POST("/auth/verify-account", m.Handler.VerifyAccount)
	}

	// Session liveness is polled by the storefront, softer limit
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/is-auth", m.Handler.IsAuth)
	}
}
