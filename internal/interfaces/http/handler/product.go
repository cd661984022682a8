package handler

import (
	"strings"

	"github.com/courseplatform/backend/internal/application/catalog"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductListResponse is a page of products
type ProductListResponse struct {
	Products   []catalog.ProductResponse `json:"products"`
	Pagination dto.Pagination            `json:"pagination"`
}

// ProductSearchResponse is a page of search hits with the query echoed back
type ProductSearchResponse struct {
	ProductListResponse
	Query string `json:"query"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Message string                   `json:"message,omitempty"`
	Product *catalog.ProductResponse `json:"product"`
}

// ProductHandler serves the shop catalog and the admin product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{BaseHandler: newBaseHandler(logger), productService: productService}
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        status    query string  false "Status (default active)"
// @Param        category  query string  false "Category"
// @Param        search    query string  false "Name contains"
// @Param        min_price query number  false "Lowest price"
// @Param        max_price query number  false "Highest price"
// @Param        page      query int     false "Page number"
// @Param        per_page  query int     false "Page size (max 100)"
// @Success      200 {object} ProductListResponse
// @Router       /products/ [get]
func (h *ProductHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.productService.List(c.Request.Context(), catalog.ProductListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		MinPrice: queryDecimal(c, "min_price"),
		MaxPrice: queryDecimal(c, "max_price"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, ProductListResponse{Products: result.Items, Pagination: dto.NewPagination(result)})
}

// Search matches active products by name or description
func (h *ProductHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page, perPage := pageParams(c)
	result, err := h.productService.Search(c.Request.Context(), query, page, perPage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, ProductSearchResponse{
		ProductListResponse: ProductListResponse{Products: result.Items, Pagination: dto.NewPagination(result)},
		Query:               query,
	})
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "Product not found")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, ProductResponse{Product: product})
}

// Categories lists the distinct product categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, CategoriesResponse{Categories: categories})
}

// Create adds a product to the shop
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ProductResponse{Message: "Product created successfully", Product: product})
}

// Update applies a partial product edit
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id", "Product not found")
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, ProductResponse{Message: "Product updated successfully", Product: product})
}

// Delete removes a product no order references
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id", "Product not found")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product deleted successfully")
}
