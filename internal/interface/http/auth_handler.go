package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/internal/interface/middleware"
	"github.com/andikasp/gocommerce/pkg/helpers"
	"github.com/andikasp/gocommerce/pkg/response"
	"github.com/andikasp/gocommerce/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger}
}

type authPayload struct {
	Token       string `json:"token"`
	TokenExpiry string `json:"token_expiry"`
	User        any    `json:"user,omitempty"`
}

// Register POST /api/auth/register {name, email, password}
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, authPayload{
		Token:       res.Token,
		TokenExpiry: res.TokenExpiry.Format(time.RFC3339),
		User:        res.User,
	}, "registered", nil)
}

// Login POST /api/auth/login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload{
		Token:       res.Token,
		TokenExpiry: res.TokenExpiry.Format(time.RFC3339),
		User:        res.User,
	}, "logged in", nil)
}

// Logout POST /api/auth/logout
// Best effort: if a valid token accompanies the request its session is
// dropped, otherwise the call is still a 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.BearerToken(c); token != "" && h.JWT != nil {
		if claims, err := h.JWT.ParseToken(token); err == nil && claims.UserID != "" {
			h.Svc.Logout(c.Request.Context(), claims.UserID)
		}
	}
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

// AdminLogin POST /api/auth/admin {email, password}
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, exp, err := h.Svc.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload{
		Token:       token,
		TokenExpiry: exp.Format(time.RFC3339),
	}, "admin logged in", nil)
}

// SendVerifyOTP POST /api/auth/send-verify-otp (auth required)
func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.SendVerifyOTP(c.Request.Context(), uid); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "verification OTP sent", nil)
}

// VerifyAccount POST /api/auth/verify-account {otp} (auth required)
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req struct {
		OTP string `json:"otp" binding:"required,otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	if err := h.Svc.VerifyAccount(c.Request.Context(), uid, req.OTP); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "account verified", nil)
}

// SendResetOTP POST /api/auth/send-reset-otp {email}
func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SendResetOTP(c.Request.Context(), req.Email); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "reset OTP sent", nil)
}

// ResetPassword POST /api/auth/reset-password {email, otp, new_password}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required,otp"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

// IsAuth GET /api/auth/is-auth (auth required)
func (h *AuthHandler) IsAuth(c *gin.Context) {
	uid := c.GetString("userID")
	alive := h.Svc.SessionAlive(c.Request.Context(), uid)
	if !alive {
		response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"authenticated": true}, "session active", nil)
}
