package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type CategoryHandler struct {
	useCase domain.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc domain.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter, requireAuth, requireAdmin gin.HandlerFunc) {
	categories := router.Group("/categorias")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:slug", h.GetCategory)
		categories.POST("", requireAuth, requireAdmin, h.CreateCategory)
		categories.PUT("/:slug", requireAuth, requireAdmin, h.UpdateCategory)
		categories.DELETE("/:slug", requireAuth, requireAdmin, h.DeleteCategory)
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories()
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		FailFromError(c, err, "Error al obtener categorías")
		return
	}
	SuccessResponse(c, http.StatusOK, "", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.useCase.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		h.log.Warnf("Failed to get category %q: %v", c.Param("slug"), err)
		FailFromError(c, err, "Categoría no encontrada")
		return
	}
	SuccessResponse(c, http.StatusOK, "", category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		h.log.Warnf("Failed to bind category body: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	created, err := h.useCase.CreateCategory(&category)
	if err != nil {
		h.log.Warnf("Failed to create category: %v", err)
		FailFromError(c, err, "Error al crear categoría")
		return
	}

	SuccessResponse(c, http.StatusCreated, "Categoría creada exitosamente", gin.H{
		"id":     created.ID,
		"nombre": created.Name,
		"slug":   created.Slug,
	})
}

// UpdateCategory accepts the category id in the :slug position, matching the
// original route layout (PUT /api/categorias/:id).
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slug"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Identificador de categoría inválido")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Warnf("Failed to bind category update %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := h.useCase.UpdateCategory(id, updates); err != nil {
		h.log.Warnf("Failed to update category %d: %v", id, err)
		FailFromError(c, err, "Error al actualizar categoría")
		return
	}

	SuccessResponse(c, http.StatusOK, "Categoría actualizada exitosamente", nil)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slug"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Identificador de categoría inválido")
		return
	}

	if err := h.useCase.DeleteCategory(id); err != nil {
		h.log.Warnf("Failed to delete category %d: %v", id, err)
		FailFromError(c, err, "Error al eliminar categoría")
		return
	}

	SuccessResponse(c, http.StatusOK, "Categoría eliminada exitosamente", nil)
}
