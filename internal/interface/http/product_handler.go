package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/pkg/response"
	"github.com/andikasp/gocommerce/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

// List GET /api/product/list
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": products}, "product list", nil)
}

// Single POST /api/product/single {product_id}
func (h *ProductHandler) Single(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": p}, "product", nil)
}

// Search GET /api/product/search?q=...&size=...
func (h *ProductHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": hits}, "search results", nil)
}

// Add POST /api/product/add (admin, multipart)
// Text fields travel as form values; image1..image4 as files.
func (h *ProductHandler) Add(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid price", nil)
		return
	}
	stock := 0
	if v := c.PostForm("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil || stock < 0 {
			response.Error[any](c, http.StatusBadRequest, "invalid stock", nil)
			return
		}
	}

	var sizes []string
	if raw := c.PostForm("sizes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
			response.Error[any](c, http.StatusBadRequest, "sizes must be a JSON array", nil)
			return
		}
	}

	in := application.AddProductInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: c.PostForm("description"),
		Price:       price,
		Category:    c.PostForm("category"),
		SubCategory: c.PostForm("sub_category"),
		Sizes:       sizes,
		Bestseller:  c.PostForm("bestseller") == "true",
		Stock:       stock,
	}
	if in.Name == "" {
		response.Error[any](c, http.StatusBadRequest, "name is required", nil)
		return
	}

	for _, field := range []string{"image1", "image2", "image3", "image4"} {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "failed to read "+field, nil)
			return
		}
		defer func() { _ = f.Close() }()
		in.Images = append(in.Images, application.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	p, err := h.Svc.AddProduct(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"product": p}, "product added", nil)
}

// Remove POST /api/product/remove {product_id} (admin)
func (h *ProductHandler) Remove(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RemoveProduct(c.Request.Context(), req.ProductID); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product removed", nil)
}
