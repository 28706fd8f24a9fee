package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/pkg/response"
)

// writeErr maps an application error kind to its HTTP status and writes the
// standard envelope.
func writeErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch application.KindOf(err) {
	case application.KindValidation:
		status = http.StatusBadRequest
	case application.KindUnauthorized:
		status = http.StatusUnauthorized
	case application.KindForbidden:
		status = http.StatusForbidden
	case application.KindNotFound:
		status = http.StatusNotFound
	case application.KindConflict:
		status = http.StatusConflict
	case application.KindGateway:
		status = http.StatusBadGateway
	}
	response.Error[any](c, status, err.Error(), nil)
}
