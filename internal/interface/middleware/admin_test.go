package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andikasp/gocommerce/pkg/helpers"
)

func adminTestRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/ping", Admin(jwt, "admin@example.com"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminMiddleware(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := adminTestRouter(jwt)

	adminToken, _, err := jwt.GenerateAdminToken("admin@example.com")
	require.NoError(t, err)
	userToken, _, err := jwt.GenerateUserToken("64b0c0ffee0000000000abcd")
	require.NoError(t, err)
	otherAdmin, _, err := jwt.GenerateAdminToken("intruder@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid admin", "Bearer " + adminToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", adminToken, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"user token lacks email claim", "Bearer " + userToken, http.StatusForbidden},
		{"wrong admin email", "Bearer " + otherAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAdminMiddlewareRejectsForgedSignature(t *testing.T) {
	forged, _, err := helpers.NewJWTManager("attacker", time.Hour).GenerateAdminToken("admin@example.com")
	require.NoError(t, err)

	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := adminTestRouter(jwt)

	req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"plain bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"padded token", "Bearer   abc.def.ghi  ", "abc.def.ghi"},
		{"no scheme", "abc.def.ghi", ""},
		{"wrong scheme", "Basic abc.def.ghi", ""},
		{"empty header", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, BearerToken(c))
		})
	}
}
