package delivery

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter, requireAuth, requireAdmin gin.HandlerFunc) {
	products := router.Group("/productos")
	{
		products.GET("", h.ListProducts)
		products.GET("/buscar", h.SearchProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", requireAuth, requireAdmin, h.CreateProduct)
		products.PUT("/:id", requireAuth, requireAdmin, h.UpdateProduct)
		products.DELETE("/:id", requireAuth, requireAdmin, h.DeleteProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := domain.ProductFilter{
		Category:     c.Query("categoria"),
		FeaturedOnly: c.Query("destacado") == "true",
		Sort:         c.DefaultQuery("orden", "recientes"),
		Limit:        limit,
		Offset:       offset,
	}

	products, total, err := h.useCase.ListProducts(filter)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		FailFromError(c, err, "Error al obtener productos")
		return
	}

	PaginatedResponse(c, products, NewPagination(total, filter.Limit, filter.Offset))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.useCase.GetProduct(c.Param("id"))
	if err != nil {
		h.log.Warnf("Failed to get product %q: %v", c.Param("id"), err)
		FailFromError(c, err, "Producto no encontrado")
		return
	}
	SuccessResponse(c, http.StatusOK, "", product)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.useCase.SearchProducts(c.Query("q"))
	if err != nil {
		h.log.Warnf("Product search failed: %v", err)
		FailFromError(c, err, "Error al buscar productos")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: products, Message: fmt.Sprintf("%d resultados", len(products))})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Warnf("Failed to bind product body: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	created, err := h.useCase.CreateProduct(&product)
	if err != nil {
		h.log.Warnf("Failed to create product: %v", err)
		FailFromError(c, err, "Error al crear producto")
		return
	}

	SuccessResponse(c, http.StatusCreated, "Producto creado exitosamente", gin.H{
		"id":     created.ID,
		"nombre": created.Name,
		"slug":   created.Slug,
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Identificador de producto inválido")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Warnf("Failed to bind product update %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := h.useCase.UpdateProduct(id, updates); err != nil {
		h.log.Warnf("Failed to update product %d: %v", id, err)
		FailFromError(c, err, "Error al actualizar producto")
		return
	}

	SuccessResponse(c, http.StatusOK, "Producto actualizado exitosamente", nil)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Identificador de producto inválido")
		return
	}

	name, err := h.useCase.DeleteProduct(id)
	if err != nil {
		h.log.Warnf("Failed to delete product %d: %v", id, err)
		FailFromError(c, err, "Error al eliminar producto")
		return
	}

	SuccessResponse(c, http.StatusOK, fmt.Sprintf("Producto %q eliminado exitosamente", name), nil)
}
