package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/pkg/helpers"
	"github.com/andikasp/gocommerce/pkg/response"
)

// Admin validates the bearer token and checks that its email claim matches
// the configured operator. There is a single admin account, so no role
// lookup is needed.
func Admin(jwt *helpers.JWTManager, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		if claims.Email == "" || claims.Email != adminEmail {
			response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.Abort()
			return
		}
		c.Set("adminEmail", claims.Email)
		c.Next()
	}
}
