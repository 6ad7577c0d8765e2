package rest

import (
	"net/http"
	"strconv"

	"modora-be/internal/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(v), err
}

type createProductRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"required"`
	Images       []string `json:"images"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	CountInStock int      `json:"count_in_stock"`
}

type updateProductRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Images       []string `json:"images"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	CountInStock *int     `json:"count_in_stock"`
}

func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	products, err := h.svc.List(c.Request.Context(), product.ListOptions{Limit: limit, Page: page})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// -- Admin operations --

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), product.CreateProductParams{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Images:       req.Images,
		Sizes:        req.Sizes,
		Colors:       req.Colors,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), product.UpdateProductParams{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Images:       req.Images,
		Sizes:        req.Sizes,
		Colors:       req.Colors,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
